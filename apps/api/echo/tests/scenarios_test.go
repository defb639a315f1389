package tests

import (
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/actios/tests"
)

func Test_scenarios(t *testing.T) {
	app, svc := setup(t)
	user1 := testutil.CreateLearner(t, svc.Catalog, "User 1", "user1@test.cd")
	user2 := testutil.CreateLearner(t, svc.Catalog, "User 2", "user2@test.cd")
	user3 := testutil.CreateLearner(t, svc.Catalog, "User 3", "user3@test.cd")
	event5 := testutil.CreateEvent(t, svc.Catalog, "Event 5", 10)

	t.Run("enroll, enroll again, cancel, re-enroll", func(t *testing.T) {
		body := []byte(`{"user_id": "` + user1.ID + `", "event_id": "` + event5.ID + `"}`)

		rec := do(t, app, http.MethodPost, "/v1/enrollments", body)
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var enr struct {
			ID     string `json:"id"`
			Number string `json:"number"`
		}
		unmarshal(t, rec, &enr)
		assert.NotEmpty(t, enr.Number)

		rec = do(t, app, http.MethodPost, "/v1/enrollments", body)
		assert.Equal(t, http.StatusConflict, rec.Code)

		rec = do(t, app, http.MethodDelete, "/v1/enrollments/"+enr.ID)
		assert.Equal(t, http.StatusNoContent, rec.Code)

		rec = do(t, app, http.MethodPost, "/v1/enrollments", body)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("participate, check in twice, feedback twice", func(t *testing.T) {
		rec := do(t, app, http.MethodPost, "/v1/participations", []byte(`{"user_id": "`+user2.ID+`", "event_id": "`+event5.ID+`"}`))
		require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
		var p struct {
			ID string `json:"id"`
		}
		unmarshal(t, rec, &p)

		for _, step := range []struct {
			path     string
			body     string
			wantCode int
		}{
			{path: "/checkin", wantCode: http.StatusNoContent},
			{path: "/checkin", wantCode: http.StatusConflict},
			{path: "/feedback", body: `{"text": "great"}`, wantCode: http.StatusNoContent},
			{path: "/feedback", body: `{"text": "again"}`, wantCode: http.StatusConflict},
		} {
			rec = do(t, app, http.MethodPost, "/v1/participations/"+p.ID+step.path, []byte(step.body))
			assert.Equal(t, step.wantCode, rec.Code, "%s %s", step.path, step.body)
		}
	})

	t.Run("invalid rating, then future event", func(t *testing.T) {
		rec := do(t, app, http.MethodPost, "/v1/evaluations", []byte(`{"user_id": "`+user3.ID+`", "event_id": "`+event5.ID+`", "rating": 6}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		var herr httpErr
		unmarshal(t, rec, &herr)
		assert.Equal(t, "invalid_field", herr.Kind)

		rec = do(t, app, http.MethodPost, "/v1/evaluations", []byte(`{"user_id": "`+user3.ID+`", "event_id": "`+event5.ID+`", "rating": 4}`))
		assert.Equal(t, http.StatusBadRequest, rec.Code)
		unmarshal(t, rec, &herr)
		assert.Equal(t, "invalid_date", herr.Kind)
	})
}
