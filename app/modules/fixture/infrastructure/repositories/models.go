package fixturedb

import (
	"time"

	"github.com/google/uuid"
	fixturedomain "github.com/matchday-pool/predictor/app/modules/fixture/domain"
	stagedomain "github.com/matchday-pool/predictor/app/modules/stage/domain"
	"github.com/uptrace/bun"
)

type Team struct {
	bun.BaseModel `bun:"table:teams,alias:t"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	Name      string    `bun:"name,notnull,unique" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Participant is a pool member. Admins manage fixtures and are never scored.
type Participant struct {
	bun.BaseModel `bun:"table:participants,alias:p"`

	ID          uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	DisplayName string    `bun:"display_name,notnull" json:"display_name"`
	IsAdmin     bool      `bun:"is_admin,notnull,default:false" json:"is_admin"`
	CreatedAt   time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Stage struct {
	bun.BaseModel `bun:"table:stages,alias:s"`

	ID              uuid.UUID          `bun:"id,pk,type:uuid" json:"id"`
	Name            string             `bun:"name,notnull" json:"name"`
	Status          stagedomain.Status `bun:"status,notnull,default:'draft'" json:"status"`
	MatchesRequired int                `bun:"matches_required,notnull,default:0" json:"matches_required"`
	CreatedAt       time.Time          `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt       time.Time          `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// CurrentStage is the single-row pointer to the current stage. The primary
// key is a constant, so the table can never hold two rows.
type CurrentStage struct {
	bun.BaseModel `bun:"table:current_stage,alias:cs"`

	Singleton bool      `bun:"singleton,pk" json:"singleton"`
	StageID   uuid.UUID `bun:"stage_id,type:uuid,notnull" json:"stage_id"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

type Tour struct {
	bun.BaseModel `bun:"table:tours,alias:tr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	StageID   uuid.UUID `bun:"stage_id,type:uuid,notnull" json:"stage_id"`
	TourNo    int       `bun:"tour_no,notnull" json:"tour_no"`
	Name      string    `bun:"name" json:"name"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

type Match struct {
	bun.BaseModel `bun:"table:matches,alias:m"`

	ID               uuid.UUID                 `bun:"id,pk,type:uuid" json:"id"`
	StageID          uuid.UUID                 `bun:"stage_id,type:uuid,notnull" json:"stage_id"`
	TourID           uuid.UUID                 `bun:"tour_id,type:uuid,notnull" json:"tour_id"`
	HomeTeamID       uuid.UUID                 `bun:"home_team_id,type:uuid,notnull" json:"home_team_id"`
	AwayTeamID       uuid.UUID                 `bun:"away_team_id,type:uuid,notnull" json:"away_team_id"`
	KickoffAt        time.Time                 `bun:"kickoff_at,notnull" json:"kickoff_at"`
	DeadlineAt       time.Time                 `bun:"deadline_at,notnull" json:"deadline_at"`
	Status           fixturedomain.MatchStatus `bun:"status,notnull,default:'scheduled'" json:"status"`
	HomeScore        *int                      `bun:"home_score" json:"home_score"`
	AwayScore        *int                      `bun:"away_score" json:"away_score"`
	ResultRecordedAt *time.Time                `bun:"result_recorded_at" json:"result_recorded_at"`
	CreatedAt        time.Time                 `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt        time.Time                 `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Finished reports whether the match is final with both scores present.
func (m *Match) Finished() bool {
	return m.Status == fixturedomain.MatchFinished && m.HomeScore != nil && m.AwayScore != nil
}

type Prediction struct {
	bun.BaseModel `bun:"table:predictions,alias:pr"`

	ID        uuid.UUID `bun:"id,pk,type:uuid" json:"id"`
	MatchID   uuid.UUID `bun:"match_id,type:uuid,notnull" json:"match_id"`
	UserID    uuid.UUID `bun:"user_id,type:uuid,notnull" json:"user_id"`
	HomePred  *int      `bun:"home_pred" json:"home_pred"`
	AwayPred  *int      `bun:"away_pred" json:"away_pred"`
	CreatedAt time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:"updated_at,nullzero,notnull,default:current_timestamp" json:"updated_at"`
}

// Complete reports whether both predicted sides are set.
func (p *Prediction) Complete() bool {
	return p.HomePred != nil && p.AwayPred != nil
}

// MatchClosing is a match whose prediction deadline falls inside a sweep window.
type MatchClosing struct {
	MatchID    uuid.UUID `bun:"match_id" json:"match_id"`
	StageID    uuid.UUID `bun:"stage_id" json:"stage_id"`
	DeadlineAt time.Time `bun:"deadline_at" json:"deadline_at"`
}
