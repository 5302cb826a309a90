package leave_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/andesmind/vacation-engine/leave"
)

func TestCanTransition(t *testing.T) {
	cases := []struct {
		from, to leave.RequestStatus
		allowed  bool
	}{
		{leave.StatusPending, leave.StatusApproved, true},
		{leave.StatusPending, leave.StatusRejected, true},
		{leave.StatusPending, leave.StatusCancelled, true},
		{leave.StatusApproved, leave.StatusCancelled, true},

		{leave.StatusApproved, leave.StatusRejected, false},
		{leave.StatusApproved, leave.StatusPending, false},
		{leave.StatusRejected, leave.StatusApproved, false},
		{leave.StatusRejected, leave.StatusCancelled, false},
		{leave.StatusCancelled, leave.StatusApproved, false},
		{leave.StatusCancelled, leave.StatusPending, false},
		{leave.StatusPending, leave.StatusPending, false},
	}

	for _, tc := range cases {
		got := leave.CanTransition(tc.from, tc.to)
		assert.Equal(t, tc.allowed, got, "%s -> %s", tc.from, tc.to)
	}
}
