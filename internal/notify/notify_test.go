package notify

import (
	"context"
	"io"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time          { return c.t }
func (c *fakeClock) advance(d time.Duration) { c.t = c.t.Add(d) }

func newCenter(clock *fakeClock) *Center {
	return NewCenter(
		WithClock(clock.now),
		WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))),
	)
}

func TestCenter_AddAndExpire(t *testing.T) {
	clock := &fakeClock{t: time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC)}
	c := newCenter(clock)

	info := c.Notify(Info, "Refreshing", "Updating authors list...")
	c.Notify(Error, "Loading Failed", "Could not load authors. Please try again.")
	require.Len(t, c.Active(), 2)
	assert.NotEmpty(t, info)

	clock.advance(2 * time.Second)
	active := c.Active()
	require.Len(t, active, 1)
	assert.Equal(t, Error, active[0].Severity)

	clock.advance(3 * time.Second)
	assert.Empty(t, c.Active())
}

func TestCenter_CustomLifeAndDismiss(t *testing.T) {
	clock := &fakeClock{t: time.Now()}
	c := newCenter(clock)

	id := c.Add(Message{Severity: Success, Summary: "Author Created", Life: time.Minute})
	clock.advance(30 * time.Second)
	require.Len(t, c.Active(), 1)
	assert.Equal(t, time.Minute, c.Active()[0].Life)

	assert.True(t, c.Dismiss(id))
	assert.False(t, c.Dismiss(id))
	assert.Empty(t, c.Active())
}

func TestCenter_Subscribe(t *testing.T) {
	c := newCenter(&fakeClock{t: time.Now()})

	var got []string
	cancel := c.Subscribe(func(m Message) { got = append(got, m.Summary) })
	c.Notify(Warn, "Duplicate ISBN", "")
	cancel()
	c.Notify(Warn, "ignored", "")

	assert.Equal(t, []string{"Duplicate ISBN"}, got)
}

func TestDialog_Confirm(t *testing.T) {
	d := NewDialog()

	go func() {
		req := <-d.Requests()
		req.Answer(req.Prompt.Header == "Confirm Cancel")
		req.Answer(false)
	}()

	ok, err := d.Confirm(context.Background(), Prompt{Header: "Confirm Cancel", Message: "All unsaved changes will be lost."})
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDialog_ConfirmCancelled(t *testing.T) {
	d := NewDialog()
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	ok, err := d.Confirm(ctx, Prompt{Header: "nobody is listening"})
	assert.False(t, ok)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
}

func TestAutoConfirm(t *testing.T) {
	ok, err := AutoConfirm(true).Confirm(context.Background(), Prompt{})
	assert.NoError(t, err)
	assert.True(t, ok)

	var c Confirmer = ConfirmFunc(func(context.Context, Prompt) (bool, error) { return false, nil })
	ok, _ = c.Confirm(context.Background(), Prompt{})
	assert.False(t, ok)
}
