package services

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/dmitrijs2005/sugarlog/internal/client/api"
	"github.com/dmitrijs2005/sugarlog/internal/filex"
)

// DefaultHealthSource names this client as the origin of synced samples.
const DefaultHealthSource = "sugarlog-cli"

// TrackerService covers everything after login: profile, daily status,
// logging intake, history, completing suggested actions and importing
// health samples.
type TrackerService interface {
	Profile(ctx context.Context) (*api.Profile, error)
	Rename(ctx context.Context, name string) (*api.Profile, error)
	SetGoal(ctx context.Context, grams float64) (*api.Profile, error)
	Today(ctx context.Context) (*api.DailyStatus, error)
	Log(ctx context.Context, grams float64, food, note string) (*api.LogEntry, error)
	History(ctx context.Context, limit int) ([]api.LogEntry, error)
	Complete(ctx context.Context, logID string) (*api.LogEntry, error)
	SyncHealthFile(ctx context.Context, path string) (*api.SyncResult, error)
}

type trackerService struct {
	client api.Client
	now    func() time.Time
}

func NewTrackerService(client api.Client) TrackerService {
	return &trackerService{client: client, now: time.Now}
}

func (s *trackerService) Profile(ctx context.Context) (*api.Profile, error) {
	return s.client.Profile(ctx)
}

func (s *trackerService) Rename(ctx context.Context, name string) (*api.Profile, error) {
	name = strings.TrimSpace(name)
	return s.client.UpdateProfile(ctx, api.ProfileUpdate{Name: &name})
}

func (s *trackerService) SetGoal(ctx context.Context, grams float64) (*api.Profile, error) {
	if !validGrams(grams) {
		return nil, fmt.Errorf("%w: goal must be a positive number", ErrInvalidInput)
	}
	return s.client.UpdateProfile(ctx, api.ProfileUpdate{DailyGoal: &grams})
}

func (s *trackerService) Today(ctx context.Context) (*api.DailyStatus, error) {
	return s.client.DailyStatus(ctx)
}

func (s *trackerService) Log(ctx context.Context, grams float64, food, note string) (*api.LogEntry, error) {
	if !validGrams(grams) {
		return nil, fmt.Errorf("%w: grams must be a positive number", ErrInvalidInput)
	}
	return s.client.LogSugar(ctx, api.SugarLog{
		Grams:    grams,
		Food:     strings.TrimSpace(food),
		Note:     strings.TrimSpace(note),
		LoggedAt: s.now().UTC(),
	})
}

// validGrams rejects NaN and infinities too; they cannot be sent as JSON.
func validGrams(v float64) bool {
	return v > 0 && !math.IsNaN(v) && !math.IsInf(v, 0)
}

func (s *trackerService) History(ctx context.Context, limit int) ([]api.LogEntry, error) {
	return s.client.History(ctx, limit)
}

func (s *trackerService) Complete(ctx context.Context, logID string) (*api.LogEntry, error) {
	logID = strings.TrimSpace(logID)
	if logID == "" {
		return nil, fmt.Errorf("%w: log id is required", ErrInvalidInput)
	}
	return s.client.CompleteAction(ctx, logID)
}

// SyncHealthFile uploads samples read from a JSON file. The file holds
// either a full {"source":..., "samples":[...]} payload or a bare array of
// samples.
func (s *trackerService) SyncHealthFile(ctx context.Context, path string) (*api.SyncResult, error) {
	data, err := filex.ReadJSONFile(path)
	if err != nil {
		return nil, err
	}

	payload, err := decodeHealthSync(data)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrInvalidInput, path, err)
	}
	return s.client.SyncHealth(ctx, payload)
}

func decodeHealthSync(data []byte) (api.HealthSync, error) {
	var payload api.HealthSync

	trimmed := strings.TrimSpace(string(data))
	if strings.HasPrefix(trimmed, "[") {
		if err := json.Unmarshal(data, &payload.Samples); err != nil {
			return payload, err
		}
	} else if err := json.Unmarshal(data, &payload); err != nil {
		return payload, err
	}

	if len(payload.Samples) == 0 {
		return payload, fmt.Errorf("no samples")
	}
	if payload.Source == "" {
		payload.Source = DefaultHealthSource
	}
	return payload, nil
}
