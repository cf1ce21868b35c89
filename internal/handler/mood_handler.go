package handler

import (
	"net/http"
	"strconv"

	"moodlink/internal/app/match"
	"moodlink/internal/app/store"
	"moodlink/internal/pkg/errs"
	"moodlink/internal/pkg/req"
	"moodlink/internal/pkg/resp"
)

// SubmitMoodInput is the request body for POST /api/v1/mood/submit.
type SubmitMoodInput struct {
	UserID    string  `json:"user_id"`
	MoodLevel int     `json:"mood_level"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
}

// HandleSubmitMood records a mood reading tied to a geographic location.
// Coordinates are stored as given; out-of-range values are not corrected and
// simply degrade distance computation for that row.
func HandleSubmitMood(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var input SubmitMoodInput
		if customErr := req.BindJSON(w, r, &input); customErr != nil {
			resp.RespondError(w, r, customErr)
			return
		}

		if input.UserID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		if _, err := deps.Store.InsertSubmission(r.Context(), input.UserID, input.MoodLevel, input.Lat, input.Lon); err != nil {
			resp.RespondError(w, r, errs.NewStoreError(err))
			return
		}

		resp.RespondStatusOK(w, r)
	}
}

// MatchesResponse is the body for GET /api/v1/mood/matches.
type MatchesResponse struct {
	Matches []store.MatchRow `json:"matches"`
}

// HandleGetMatches returns current same-mood submissions from other users.
//
// The search point is applied only when both search_lat and search_lon are
// supplied and parse as valid numbers; otherwise the result is the full
// same-mood sequence unfiltered by distance.
func HandleGetMatches(deps *AppDeps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		moodLevel, err := strconv.Atoi(query.Get("mood"))
		if err != nil {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		userID := query.Get("user_id")
		if userID == "" {
			resp.RespondError(w, r, errs.NewError(errs.ErrInvalidParams))
			return
		}

		searchPoint := parseSearchPoint(query.Get("search_lat"), query.Get("search_lon"))

		matches, err := deps.Matcher.FindMatches(r.Context(), moodLevel, userID, searchPoint)
		if err != nil {
			resp.RespondError(w, r, errs.NewStoreError(err))
			return
		}

		resp.RespondSuccess(w, r, MatchesResponse{Matches: matches})
	}
}

// parseSearchPoint returns a Point only when both parameters parse as floats.
func parseSearchPoint(latStr, lonStr string) *match.Point {
	if latStr == "" || lonStr == "" {
		return nil
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil
	}

	lon, err := strconv.ParseFloat(lonStr, 64)
	if err != nil {
		return nil
	}

	return &match.Point{Lat: lat, Lon: lon}
}
