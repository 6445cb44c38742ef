package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/gfmartins/bolao-brasileirao/internal/domain/participant"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/snapshot"
	"github.com/gfmartins/bolao-brasileirao/internal/domain/team"
)

type stubTeamRepo struct {
	teams        []team.Team
	maxMatches   int
	upserts      [][]team.StandingsRow
	lastUpsertAt time.Time
	listErr      error
	upsertErr    error
}

func (r *stubTeamRepo) List(ctx context.Context) ([]team.Team, error) {
	return r.teams, r.listErr
}

func (r *stubTeamRepo) ListBySlug(ctx context.Context) ([]team.Team, error) {
	return r.teams, r.listErr
}

func (r *stubTeamRepo) ListByPosition(ctx context.Context) ([]team.Team, error) {
	return r.teams, r.listErr
}

func (r *stubTeamRepo) GetBySofascoreID(ctx context.Context, sofascoreID int64) (team.Team, bool, error) {
	for _, t := range r.teams {
		if t.SofascoreID == sofascoreID {
			return t, true, nil
		}
	}
	return team.Team{}, false, nil
}

func (r *stubTeamRepo) UpsertBatch(ctx context.Context, rows []team.StandingsRow, updatedAt time.Time) error {
	if r.upsertErr != nil {
		return r.upsertErr
	}
	r.upserts = append(r.upserts, rows)
	r.lastUpsertAt = updatedAt
	return nil
}

func (r *stubTeamRepo) MaxMatches(ctx context.Context) (int, error) {
	return r.maxMatches, nil
}

type stubParticipantRepo struct {
	participants []participant.Participant
	nextID       int64
}

func (r *stubParticipantRepo) List(ctx context.Context) ([]participant.Participant, error) {
	return r.participants, nil
}

func (r *stubParticipantRepo) GetByID(ctx context.Context, id int64) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if p.ID == id {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *stubParticipantRepo) GetByName(ctx context.Context, name string) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if strings.EqualFold(p.Name, name) {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *stubParticipantRepo) GetByRegistrationOrder(ctx context.Context, order int) (participant.Participant, bool, error) {
	for _, p := range r.participants {
		if p.RegistrationOrder == order {
			return p, true, nil
		}
	}
	return participant.Participant{}, false, nil
}

func (r *stubParticipantRepo) Create(ctx context.Context, p participant.Participant) (participant.Participant, error) {
	r.nextID++
	p.ID = r.nextID
	p.CreatedAt = time.Now()
	r.participants = append(r.participants, p)
	return p, nil
}

func (r *stubParticipantRepo) Update(ctx context.Context, p participant.Participant) error {
	for i := range r.participants {
		if r.participants[i].ID == p.ID {
			r.participants[i] = p
			return nil
		}
	}
	return nil
}

func (r *stubParticipantRepo) Delete(ctx context.Context, id int64) error {
	for i := range r.participants {
		if r.participants[i].ID == id {
			r.participants = append(r.participants[:i], r.participants[i+1:]...)
			return nil
		}
	}
	return nil
}

func (r *stubParticipantRepo) Count(ctx context.Context) (int, error) {
	return len(r.participants), nil
}

type stubSnapshotRepo struct {
	replaced    map[string][]snapshot.Snapshot
	historyRows []snapshot.HistoryRow
	replaceErr  error
}

func newStubSnapshotRepo() *stubSnapshotRepo {
	return &stubSnapshotRepo{replaced: make(map[string][]snapshot.Snapshot)}
}

func (r *stubSnapshotRepo) ReplaceSession(ctx context.Context, sessionDate time.Time, rows []snapshot.Snapshot) error {
	if r.replaceErr != nil {
		return r.replaceErr
	}
	r.replaced[sessionDate.Format("2006-01-02")] = rows
	return nil
}

func (r *stubSnapshotRepo) ListHistory(ctx context.Context, participantFilter string) ([]snapshot.HistoryRow, error) {
	if participantFilter == "" {
		return r.historyRows, nil
	}
	var out []snapshot.HistoryRow
	for _, row := range r.historyRows {
		if strings.Contains(strings.ToLower(row.Participant), strings.ToLower(participantFilter)) {
			out = append(out, row)
		}
	}
	return out, nil
}

func (r *stubSnapshotRepo) ListBySessionDate(ctx context.Context, sessionDate time.Time) ([]snapshot.Snapshot, error) {
	return r.replaced[sessionDate.Format("2006-01-02")], nil
}

type stubFetcher struct {
	rows  []team.StandingsRow
	err   error
	calls int
}

func (f *stubFetcher) FetchStandings(ctx context.Context) ([]team.StandingsRow, error) {
	f.calls++
	return f.rows, f.err
}

type stubBadges struct {
	downloaded int
	calls      int
}

func (b *stubBadges) DownloadAll(ctx context.Context, teams []team.Team) int {
	b.calls++
	return b.downloaded
}
