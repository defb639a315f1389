package attendance

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestState_transitions(t *testing.T) {
	tests := []struct {
		state        State
		wantCheckIn  State
		checkInErr   error
		wantFeedback State
		feedbackErr  error
	}{
		{StateRegistered, StateCheckedIn, nil, StateRegistered, ErrNotCheckedIn},
		{StateCheckedIn, StateCheckedIn, ErrAlreadyCheckedIn, StateFeedbackGiven, nil},
		{StateFeedbackGiven, StateFeedbackGiven, ErrAlreadyCheckedIn, StateFeedbackGiven, ErrFeedbackExists},
	}
	for _, tt := range tests {
		t.Run(string(tt.state), func(t *testing.T) {
			assert.True(t, tt.state.Valid())
			got, err := tt.state.CheckIn()
			assert.Equal(t, tt.wantCheckIn, got)
			assert.Equal(t, tt.checkInErr, err)

			got, err = tt.state.GiveFeedback()
			assert.Equal(t, tt.wantFeedback, got)
			assert.Equal(t, tt.feedbackErr, err)
		})
	}
	assert.False(t, State("lol").Valid())
}

func TestParticipation_MarshalJSON(t *testing.T) {
	b, err := json.Marshal(Participation{ID: "1", State: StateFeedbackGiven})
	require.NoError(t, err)

	var got map[string]interface{}
	require.NoError(t, json.Unmarshal(b, &got))
	assert.Equal(t, "feedback_given", got["state"])
	assert.Equal(t, true, got["checked_in"])
	assert.Nil(t, got["feedback"])
}
