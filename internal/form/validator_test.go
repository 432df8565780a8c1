package form

import (
	"strings"
	"testing"
	"time"
)

func fixToday(t *testing.T, d time.Time) {
	t.Helper()
	prev := today
	today = func() time.Time { return d }
	t.Cleanup(func() { today = prev })
}

func TestValidateStruct_ValidAuthor(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	d := AuthorDraft{
		Name:        "Isaac Asimov",
		BirthDate:   time.Date(1920, 1, 2, 0, 0, 0, 0, time.UTC),
		Nationality: "American",
	}
	errors := ValidateStruct(d)
	if len(errors) != 0 {
		t.Errorf("Expected no validation errors, got %v", errors)
	}
}

func TestValidateStruct_RequiredFields(t *testing.T) {
	errors := ValidateStruct(AuthorDraft{})
	if len(errors) != 3 {
		t.Fatalf("Expected 3 validation errors, got %d", len(errors))
	}

	want := map[string]bool{"name": false, "birthDate": false, "nationality": false}
	for _, err := range errors {
		if _, ok := want[err.Field]; ok && strings.Contains(err.Message, "required") {
			want[err.Field] = true
		}
	}
	for field, seen := range want {
		if !seen {
			t.Errorf("Expected %s required error", field)
		}
	}
}

func TestValidateStruct_Lengths(t *testing.T) {
	fixToday(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC))

	d := AuthorDraft{
		Name:        "A",
		BirthDate:   time.Date(1950, 1, 1, 0, 0, 0, 0, time.UTC),
		Nationality: strings.Repeat("x", 51),
	}
	errors := ValidateStruct(d)
	if len(errors) != 2 {
		t.Fatalf("Expected 2 validation errors, got %v", errors)
	}
	if errors[0].Field != "name" || !strings.Contains(errors[0].Message, "at least 2") {
		t.Errorf("Unexpected name error: %+v", errors[0])
	}
	if errors[1].Field != "nationality" || !strings.Contains(errors[1].Message, "at most 50") {
		t.Errorf("Unexpected nationality error: %+v", errors[1])
	}
}

func TestValidateStruct_BirthDateBounds(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixToday(t, now)

	testCases := []struct {
		name  string
		date  time.Time
		valid bool
	}{
		{"today", now, true},
		{"tomorrow", now.AddDate(0, 0, 1), false},
		{"exactly max age", now.AddDate(-MaxAuthorAge, 0, 0), true},
		{"older than max age", now.AddDate(-MaxAuthorAge, 0, -1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			d := AuthorDraft{Name: "Someone", BirthDate: tc.date, Nationality: "Nowhere"}
			errors := ValidateStruct(d)
			if tc.valid && len(errors) != 0 {
				t.Errorf("Expected valid birth date, got %v", errors)
			}
			if !tc.valid && (len(errors) != 1 || errors[0].Field != "birthDate") {
				t.Errorf("Expected a birthDate error, got %v", errors)
			}
		})
	}
}

func TestValidISBN(t *testing.T) {
	testCases := []struct {
		isbn  string
		valid bool
	}{
		{"9780553293357", true},
		{"978-0-553-29335-7", true},
		{"ISBN-13: 978-0-553-29335-7", true},
		{"055329335X", true},
		{"055329335x", true},
		{"0553293354", true},
		{"12345", false},
		{"9990553293357", false},
		{"97805532933AB", false},
		{"", false},
	}

	for _, tc := range testCases {
		if got := ValidISBN(tc.isbn); got != tc.valid {
			t.Errorf("ValidISBN(%q) = %v, want %v", tc.isbn, got, tc.valid)
		}
	}
}

func TestNormalizeISBN(t *testing.T) {
	if got := NormalizeISBN(" 978-0 553-29335-7 "); got != "9780553293357" {
		t.Errorf("NormalizeISBN = %q", got)
	}
	if got := NormalizeISBN("ISBN: 0-553-29335-x"); got != "055329335X" {
		t.Errorf("NormalizeISBN = %q", got)
	}
}

func TestValidateStruct_BookDraft(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixToday(t, now)

	d := BookDraft{
		Title:           strings.Repeat("t", 201),
		ISBN:            "not-an-isbn",
		PublicationDate: now.AddDate(0, 0, 1),
		AuthorID:        -1,
	}
	errors := ValidateStruct(d)
	fields := make(map[string]string)
	for _, err := range errors {
		fields[err.Field] = err.Message
	}

	for _, f := range []string{"title", "isbn", "publicationDate", "authorId"} {
		if _, ok := fields[f]; !ok {
			t.Errorf("Expected %s error, got %v", f, errors)
		}
	}
	if !strings.Contains(fields["isbn"], "valid ISBN") {
		t.Errorf("Unexpected isbn message: %q", fields["isbn"])
	}
	if !strings.Contains(fields["publicationDate"], "future") {
		t.Errorf("Unexpected publicationDate message: %q", fields["publicationDate"])
	}
}

func TestValidateStruct_MagazineAuthors(t *testing.T) {
	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	fixToday(t, now)

	d := NewMagazineDraft()
	d.Title = "Analog"
	errors := ValidateStruct(d)
	if len(errors) != 1 || errors[0].Field != "authors" {
		t.Fatalf("Expected a single authors error, got %v", errors)
	}

	d.AuthorIDs = []int64{3, 0}
	errors = ValidateStruct(d)
	if len(errors) != 1 || errors[0].Field != "authors[1]" {
		t.Fatalf("Expected authors[1] error, got %v", errors)
	}

	d.AuthorIDs = []int64{3}
	d.IssueNumber = 0
	errors = ValidateStruct(d)
	if len(errors) != 1 || errors[0].Field != "issueNumber" {
		t.Fatalf("Expected issueNumber error, got %v", errors)
	}
}

func TestValidationError(t *testing.T) {
	err := &ValidationError{Fields: []FieldError{
		{Field: "name", Message: "name is required"},
		{Field: "isbn", Message: "isbn must be a valid ISBN (10 or 13 digits)"},
	}}
	if !err.Has("isbn") || err.Has("title") {
		t.Error("Has reported the wrong fields")
	}
	if !strings.HasPrefix(err.Error(), "validation failed: name is required; ") {
		t.Errorf("Unexpected error text: %q", err.Error())
	}
}
