package tests

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/trezcool/actios/core/evaluation"
	"github.com/trezcool/actios/tests"
)

func Test_evaluationApi(t *testing.T) {
	ctx := context.Background()
	app, svc := setup(t)
	evt := testutil.CreateEvent(t, svc.Catalog, "Go Meetup", -1)
	unrated := testutil.CreateEvent(t, svc.Catalog, "Rust Meetup", -1)
	future := testutil.CreateEvent(t, svc.Catalog, "Zig Meetup", 1)
	alice := testutil.CreateLearner(t, svc.Catalog, "Alice", "alice@test.cd")
	bob := testutil.CreateLearner(t, svc.Catalog, "Bob", "bob@test.cd")
	carol := testutil.CreateLearner(t, svc.Catalog, "Carol", "carol@test.cd")
	for _, usrID := range []string{alice.ID, bob.ID} {
		for _, evtID := range []string{evt.ID, future.ID} {
			p, err := svc.Attendance.RegisterParticipation(ctx, usrID, evtID)
			require.NoError(t, err)
			_, err = svc.Attendance.CheckIn(ctx, p.ID)
			require.NoError(t, err)
		}
	}

	body := func(userID, eventID string, rating *int, comment string) []byte {
		return marchallObj(t, evaluation.NewEvaluation{UserID: userID, EventID: eventID, Rating: rating, Comment: comment})
	}
	errRating := marchallObj(t, httpErr{Kind: "invalid_field", Error: "rating must be between 1 and 5"})

	tests := []httpTest{
		{name: "missing rating", body: body(alice.ID, evt.ID, nil, ""), wantCode: http.StatusBadRequest, wantData: errRating},
		{name: "rating 0", body: body(alice.ID, evt.ID, testutil.IntPtr(0), ""), wantCode: http.StatusBadRequest, wantData: errRating},
		{name: "rating 6", body: body(alice.ID, evt.ID, testutil.IntPtr(6), ""), wantCode: http.StatusBadRequest, wantData: errRating},
		{name: "rating not a number", body: []byte(`{"user_id": "u", "event_id": "e", "rating": "five"}`), wantCode: http.StatusBadRequest},
		{
			name: "future event", body: body(alice.ID, future.ID, testutil.IntPtr(4), ""), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Kind: "invalid_date", Error: "event has not taken place yet"}),
		},
		{
			name: "not a participant", body: body(carol.ID, evt.ID, testutil.IntPtr(4), ""), wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Kind: "operation_not_allowed", Error: "only checked-in participants can evaluate an event"}),
		},
		{name: "alice rates 4", body: body(alice.ID, evt.ID, testutil.IntPtr(4), "good")},
		{name: "bob rates 5", body: body(bob.ID, evt.ID, testutil.IntPtr(5), "")},
		{
			name: "alice again", body: body(alice.ID, evt.ID, testutil.IntPtr(1), ""), wantCode: http.StatusConflict,
			wantData: marchallObj(t, httpErr{Kind: "already_exists", Error: "user already evaluated this event"}),
		},
	}
	for i := range tests {
		tests[i].method = http.MethodPost
		tests[i].path = "/v1/evaluations"
	}
	runHTTPTests(t, app, tests)

	evs, err := svc.Evaluation.ListByEvent(ctx, evt.ID)
	require.NoError(t, err)

	runHTTPTests(t, app, []httpTest{
		{name: "list", path: "/v1/evaluations?event_id=" + evt.ID, wantData: marchallList(t, evs[0], evs[1])},
		{name: "average", path: "/v1/evaluations/average?event_id=" + evt.ID, wantData: []byte(`{"event_id": "` + evt.ID + `", "average": 4.5, "count": 2}`)},
		{
			name: "average unrated", path: "/v1/evaluations/average?event_id=" + unrated.ID, wantCode: http.StatusNotFound,
			wantData: marchallObj(t, httpErr{Kind: "not_found", Error: "event has no ratings"}),
		},
		{name: "average unknown event", path: "/v1/evaluations/average?event_id=lol", wantCode: http.StatusNotFound},
		{name: "count 5", path: "/v1/evaluations/count?rating=5", wantData: []byte(`{"rating": 5, "count": 1}`)},
		{name: "count 2", path: "/v1/evaluations/count?rating=2", wantData: []byte(`{"rating": 2, "count": 0}`)},
		{name: "count 7", path: "/v1/evaluations/count?rating=7", wantCode: http.StatusBadRequest, wantData: errRating},
		{
			name: "count lol", path: "/v1/evaluations/count?rating=lol", wantCode: http.StatusBadRequest,
			wantData: marchallObj(t, httpErr{Kind: "invalid_field", Error: "invalid input", Fields: map[string]string{"rating": "must be an integer"}}),
		},
	})
}
