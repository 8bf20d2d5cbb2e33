package fixturedb

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

func (r *Impl) CreateTeam(ctx context.Context, db bun.IDB, team *Team) error {
	db = r.resolveDB(db)
	if team.ID == uuid.Nil {
		team.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(team).Returning("created_at").Exec(ctx); err != nil {
		return mapWriteErr("CreateTeam", err)
	}
	return nil
}

func (r *Impl) GetTeam(ctx context.Context, db bun.IDB, id uuid.UUID) (*Team, error) {
	db = r.resolveDB(db)
	team := new(Team)
	if err := db.NewSelect().Model(team).Where("t.id = ?", id).Scan(ctx); err != nil {
		return nil, mapReadErr("GetTeam", err)
	}
	return team, nil
}

func (r *Impl) ListTeams(ctx context.Context, db bun.IDB) ([]Team, error) {
	db = r.resolveDB(db)
	var teams []Team
	if err := db.NewSelect().Model(&teams).Order("t.name ASC").Scan(ctx); err != nil {
		return nil, fmt.Errorf("fixturedb.ListTeams: %w", err)
	}
	return teams, nil
}

func (r *Impl) CreateParticipant(ctx context.Context, db bun.IDB, p *Participant) error {
	db = r.resolveDB(db)
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	if _, err := db.NewInsert().Model(p).Returning("created_at").Exec(ctx); err != nil {
		return mapWriteErr("CreateParticipant", err)
	}
	return nil
}

func (r *Impl) GetParticipant(ctx context.Context, db bun.IDB, id uuid.UUID) (*Participant, error) {
	db = r.resolveDB(db)
	p := new(Participant)
	if err := db.NewSelect().Model(p).Where("p.id = ?", id).Scan(ctx); err != nil {
		return nil, mapReadErr("GetParticipant", err)
	}
	return p, nil
}

// ListScorableParticipants returns every non-admin participant ordered by id.
func (r *Impl) ListScorableParticipants(ctx context.Context, db bun.IDB) ([]Participant, error) {
	db = r.resolveDB(db)
	var out []Participant
	err := db.NewSelect().
		Model(&out).
		Where("p.is_admin = FALSE").
		Order("p.id ASC").
		Scan(ctx)
	if err != nil {
		return nil, fmt.Errorf("fixturedb.ListScorableParticipants: %w", err)
	}
	return out, nil
}
