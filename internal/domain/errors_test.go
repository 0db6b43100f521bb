package domain

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestError_Is(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		target error
		want   bool
	}{
		{"kind sentinel matches specific error", ErrEventNotFound, ErrNotFound, true},
		{"kind sentinel matches wrapped error", fmt.Errorf("get event: %w", ErrUserNotFound), ErrNotFound, true},
		{"specific error matches itself", ErrAlreadyAttending, ErrAlreadyAttending, true},
		{"same kind different message", ErrNotAttending, ErrAlreadyAttending, false},
		{"different kind", ErrNotHost, ErrNotFound, false},
		{"host unattend is forbidden", ErrHostCannotUnattend, ErrForbidden, true},
		{"plain error", errors.New("boom"), ErrNotFound, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, errors.Is(tt.err, tt.target))
		})
	}
}

func TestKindOfAndMessageOf(t *testing.T) {
	wrapped := fmt.Errorf("attend: %w", ErrAlreadyAttending)
	assert.Equal(t, KindConflict, KindOf(wrapped))
	assert.Equal(t, "already attending this event", MessageOf(wrapped))

	plain := errors.New("connection refused")
	assert.Equal(t, KindInternal, KindOf(plain))
	assert.Equal(t, "internal error", MessageOf(plain))

	assert.Equal(t, "forbidden", MessageOf(ErrForbidden))
}

func TestError_ErrorIncludesCause(t *testing.T) {
	err := &Error{Kind: KindInternal, Message: "create user", Err: errors.New("disk full")}
	assert.Equal(t, "create user: disk full", err.Error())
	assert.True(t, errors.Is(err, err.Err))
}

func TestNewEvent_HostIsAttendee(t *testing.T) {
	e := NewEvent("T", "", "D", "host-1", time.Time{}, time.Time{})
	assert.Equal(t, []string{"host-1"}, e.AttendeeIDs)
	assert.True(t, e.HasAttendee("host-1"))
	assert.False(t, e.HasAttendee("other"))
}
