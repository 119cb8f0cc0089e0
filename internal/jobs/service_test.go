package jobs

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/kiranshivaraju/jobscout/internal/ai"
	"github.com/kiranshivaraju/jobscout/internal/ai/mock"
	"github.com/kiranshivaraju/jobscout/internal/places"
	"github.com/kiranshivaraju/jobscout/internal/store"
	"github.com/kiranshivaraju/jobscout/internal/verify"
	"github.com/kiranshivaraju/jobscout/pkg/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakePlaces struct {
	DetailsFunc func(ctx context.Context, placeID, language string) (*places.Place, error)
	GeocodeFunc func(ctx context.Context, address, language string) (*places.Place, error)
	calls       int
}

func (f *fakePlaces) Autocomplete(_ context.Context, _, _ string) ([]places.Prediction, error) {
	return []places.Prediction{}, nil
}

func (f *fakePlaces) Details(ctx context.Context, placeID, language string) (*places.Place, error) {
	f.calls++
	return f.DetailsFunc(ctx, placeID, language)
}

func (f *fakePlaces) Geocode(ctx context.Context, address, language string) (*places.Place, error) {
	f.calls++
	return f.GeocodeFunc(ctx, address, language)
}

func (f *fakePlaces) ReverseGeocode(_ context.Context, _ models.Coordinate) (string, error) {
	return "", places.ErrNoResults
}

type fakeAdvisor struct {
	analysis    models.SafetyAnalysis
	match       models.JobMatch
	category    string
	gotDesc     string
	gotProfile  models.MatchProfile
	recommended int
}

func (f *fakeAdvisor) MatchJob(_ context.Context, description string, profile models.MatchProfile) models.JobMatch {
	f.gotDesc = description
	f.gotProfile = profile
	return f.match
}

func (f *fakeAdvisor) AnalyzeJobSafety(_ context.Context, description string) models.SafetyAnalysis {
	f.gotDesc = description
	return f.analysis
}

func (f *fakeAdvisor) RecommendJobs(_ context.Context, jobs []*models.Job, category string) []*models.Job {
	f.category = category
	f.recommended = len(jobs)
	if len(jobs) > 1 {
		return jobs[:1]
	}
	return jobs
}

var fixedNow = time.Date(2026, 3, 14, 9, 30, 0, 0, time.FixedZone("IST", 5*3600+1800))

func newTestService(t *testing.T, pl places.Client, adv Advisor) (*Service, store.Store) {
	t.Helper()
	st, err := store.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "jobs.db"))
	require.NoError(t, err)
	t.Cleanup(st.Close)

	if adv == nil {
		adv = &fakeAdvisor{}
	}
	svc := NewService(st, verify.NewVerifier(verify.DefaultRules()), adv, pl, 50)
	svc.now = func() time.Time { return fixedNow }
	return svc, st
}

func validRequest() SubmitRequest {
	return SubmitRequest{Submission: verify.Submission{
		Title:       "  Farm Helper  ",
		Company:     "Green Acres",
		Location:    "Coimbatore, Tamil Nadu",
		Pay:         "₹600/day",
		Description: "Harvest help needed for six weeks, meals included.",
		Coordinates: &models.Coordinate{Latitude: 11.0168, Longitude: 76.9558},
	}}
}

func TestSubmit_PersistsVerifiedJob(t *testing.T) {
	svc, st := newTestService(t, nil, nil)

	job, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEqual(t, uuid.Nil, job.ID)
	assert.Equal(t, "Farm Helper", job.Title)
	assert.True(t, job.Verified)
	assert.Equal(t, models.RiskLow, job.SafetyScore)
	assert.Equal(t, fixedNow.UTC(), job.CreatedAt)
	assert.Equal(t, time.UTC, job.CreatedAt.Location())

	stored, err := st.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Equal(t, job.Title, stored.Title)
	require.NotNil(t, stored.Coordinates)
	assert.InDelta(t, 11.0168, stored.Coordinates.Latitude, 1e-9)
}

func TestSubmit_VerificationFailure(t *testing.T) {
	svc, st := newTestService(t, nil, nil)

	req := validRequest()
	req.Title = "Jo"
	_, err := svc.Submit(context.Background(), req)

	var verr *VerificationError
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, verify.ReasonTitleTooShort, verr.Reason)
	assert.Equal(t, verify.ReasonTitleTooShort.Message(), err.Error())

	all, err := st.ListJobs(context.Background())
	require.NoError(t, err)
	assert.Empty(t, all)
}

func TestSubmit_ResolvesPlaceID(t *testing.T) {
	pl := &fakePlaces{DetailsFunc: func(_ context.Context, placeID, language string) (*places.Place, error) {
		assert.Equal(t, "ChIJ-coimbatore", placeID)
		assert.Equal(t, "tamil", language)
		return &places.Place{Address: "Coimbatore", Coordinates: models.Coordinate{Latitude: 11, Longitude: 77}}, nil
	}}
	svc, _ := newTestService(t, pl, nil)

	req := validRequest()
	req.Coordinates = nil
	req.PlaceID = "ChIJ-coimbatore"
	req.Language = "tamil"

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, job.Coordinates)
	assert.Equal(t, models.Coordinate{Latitude: 11, Longitude: 77}, *job.Coordinates)
	assert.Equal(t, "Coimbatore, Tamil Nadu", job.Location)
	assert.Equal(t, models.RiskLow, job.SafetyScore)
}

func TestSubmit_GeocodesLocationText(t *testing.T) {
	pl := &fakePlaces{GeocodeFunc: func(_ context.Context, address, _ string) (*places.Place, error) {
		assert.Equal(t, "Coimbatore, Tamil Nadu", address)
		return &places.Place{Coordinates: models.Coordinate{Latitude: 11, Longitude: 77}}, nil
	}}
	svc, _ := newTestService(t, pl, nil)

	req := validRequest()
	req.Coordinates = nil

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, job.Coordinates)
}

func TestSubmit_PlacesFailureStillPosts(t *testing.T) {
	pl := &fakePlaces{GeocodeFunc: func(_ context.Context, _, _ string) (*places.Place, error) {
		return nil, places.ErrUnreachable
	}}
	svc, _ := newTestService(t, pl, nil)

	req := validRequest()
	req.Coordinates = nil

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, job.Coordinates)
	assert.Equal(t, models.RiskMedium, job.SafetyScore)
	assert.Equal(t, 1, pl.calls)
}

func TestSubmit_PlaceWithoutGeometryLeavesCoordinatesUnset(t *testing.T) {
	maps := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"status":"OK","result":{"formatted_address":"Coimbatore"}}`))
	}))
	defer maps.Close()

	svc, st := newTestService(t, places.NewHTTPClient(maps.URL, "maps-key", time.Second), nil)

	req := validRequest()
	req.Coordinates = nil
	req.PlaceID = "ChIJ-coimbatore"

	job, err := svc.Submit(context.Background(), req)
	require.NoError(t, err)
	assert.Nil(t, job.Coordinates)
	assert.Equal(t, models.RiskMedium, job.SafetyScore)

	stored, err := st.GetJob(context.Background(), job.ID)
	require.NoError(t, err)
	assert.Nil(t, stored.Coordinates)
}

func TestSubmit_CoordinatesSkipPlaces(t *testing.T) {
	pl := &fakePlaces{}
	svc, _ := newTestService(t, pl, nil)

	_, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Zero(t, pl.calls)
}

func TestList_AllAndPrefix(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	for _, title := range []string{"Farm Helper", "Delivery Rider", "Farmhand Needed"} {
		req := validRequest()
		req.Title = title
		_, err := svc.Submit(ctx, req)
		require.NoError(t, err)
	}

	all, err := svc.List(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	farm, err := svc.List(ctx, " Farm ")
	require.NoError(t, err)
	require.Len(t, farm, 2)
	assert.Equal(t, "Farm Helper", farm[0].Title)
	assert.Equal(t, "Farmhand Needed", farm[1].Title)
}

func TestGet_NotFound(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	_, err := svc.Get(context.Background(), uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestNearby(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	near := validRequest()
	near.Title = "Nearby Cook"
	near.Coordinates = &models.Coordinate{Latitude: 11.02, Longitude: 76.96}
	far := validRequest()
	far.Title = "Far Away Cook"
	far.Coordinates = &models.Coordinate{Latitude: 13.08, Longitude: 80.27}
	for _, r := range []SubmitRequest{far, near} {
		_, err := svc.Submit(ctx, r)
		require.NoError(t, err)
	}

	got, err := svc.Nearby(ctx, models.Coordinate{Latitude: 11.0168, Longitude: 76.9558}, 0)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Nearby Cook", got[0].Title)
	require.NotNil(t, got[0].DistanceKm)

	wide, err := svc.Nearby(ctx, models.Coordinate{Latitude: 11.0168, Longitude: 76.9558}, 1000)
	require.NoError(t, err)
	require.Len(t, wide, 2)
	assert.Equal(t, "Nearby Cook", wide[0].Title)
}

func TestReport_DefaultReason(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	ctx := context.Background()

	job, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	report, err := svc.Report(ctx, job.ID, "   ")
	require.NoError(t, err)
	assert.Equal(t, DefaultReportReason, report.Reason)
	assert.Equal(t, job.ID, report.JobID)

	report, err = svc.Report(ctx, job.ID, "Asked for a registration fee")
	require.NoError(t, err)
	assert.Equal(t, "Asked for a registration fee", report.Reason)
}

func TestReport_UnknownJob(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	_, err := svc.Report(context.Background(), uuid.New(), "spam")
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSafety(t *testing.T) {
	adv := &fakeAdvisor{analysis: models.SafetyAnalysis{SafetyScore: 8, SafetyNotes: []string{"Clear pay"}}}
	svc, _ := newTestService(t, nil, adv)
	ctx := context.Background()

	job, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	got, err := svc.Safety(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, 8, got.SafetyScore)
	assert.Equal(t, job.Description, adv.gotDesc)

	_, err = svc.Safety(ctx, uuid.New())
	require.ErrorIs(t, err, store.ErrNotFound)
}

func TestSafety_MalformedAIResponseUsesDefault(t *testing.T) {
	adv := ai.NewService(mock.NewMockProvider("I think this job looks fine!"), nil, ai.ServiceConfig{})
	svc, _ := newTestService(t, nil, adv)
	ctx := context.Background()

	job, err := svc.Submit(ctx, validRequest())
	require.NoError(t, err)

	got, err := svc.Safety(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultSafetyAnalysis(), got)
}

func TestRecommend(t *testing.T) {
	adv := &fakeAdvisor{}
	svc, _ := newTestService(t, nil, adv)
	ctx := context.Background()

	for i := 0; i < 2; i++ {
		_, err := svc.Submit(ctx, validRequest())
		require.NoError(t, err)
	}

	got, err := svc.Recommend(ctx, "")
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Equal(t, ai.CategoryPopular, adv.category)
	assert.Equal(t, 2, adv.recommended)

	_, err = svc.Recommend(ctx, " Safety ")
	require.NoError(t, err)
	assert.Equal(t, ai.CategorySafety, adv.category)
}

func TestRecommend_InvalidCategory(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)
	_, err := svc.Recommend(context.Background(), "cheapest")
	require.True(t, errors.Is(err, ErrInvalidCategory))
}

func TestMatch(t *testing.T) {
	adv := &fakeAdvisor{match: models.JobMatch{MatchScore: 9, Reasons: []string{"Harvest experience"}}}
	svc, _ := newTestService(t, nil, adv)
	job, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	got, err := svc.Match(context.Background(), job.ID, models.MatchProfile{
		Skills:      []string{" harvesting ", "", "driving"},
		Preferences: map[string]any{"meals": true},
	})
	require.NoError(t, err)
	assert.Equal(t, adv.match, got)
	assert.Equal(t, job.Description, adv.gotDesc)
	assert.Equal(t, []string{"harvesting", "driving"}, adv.gotProfile.Skills)
	assert.Equal(t, map[string]any{"meals": true}, adv.gotProfile.Preferences)
}

func TestMatch_NoSkills(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.Match(context.Background(), uuid.New(), models.MatchProfile{Skills: []string{"  "}})
	assert.ErrorIs(t, err, ErrNoSkills)
}

func TestMatch_UnknownJob(t *testing.T) {
	svc, _ := newTestService(t, nil, nil)

	_, err := svc.Match(context.Background(), uuid.New(), models.MatchProfile{Skills: []string{"cooking"}})
	assert.ErrorIs(t, err, store.ErrNotFound)
}

func TestMatch_MalformedAIResponseUsesDefault(t *testing.T) {
	svc, _ := newTestService(t, nil, ai.NewService(mock.NewMockProvider("no idea"), nil, ai.ServiceConfig{}))
	job, err := svc.Submit(context.Background(), validRequest())
	require.NoError(t, err)

	got, err := svc.Match(context.Background(), job.ID, models.MatchProfile{Skills: []string{"cooking"}})
	require.NoError(t, err)
	assert.Equal(t, ai.DefaultJobMatch(), got)
}
