package fixtures

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"gaafix-backend/services/fixtures/db"

	"go.opentelemetry.io/otel/codes"
)

// Store persists collection runs. Each run gets one collections row
// holding the full result as json plus one fixtures row per fixture so
// later exports do not have to re-decode the blob.
type Store struct {
	db *sql.DB
}

func NewStore(database *sql.DB) (Store, error) {
	_, err := database.Exec(db.Schema)
	if err != nil {
		return Store{}, err
	}
	return Store{db: database}, nil
}

func (s Store) SaveCollection(ctx context.Context, result CollectionResult) (int64, error) {
	ctx, span := tracer.Start(ctx, "SaveCollection")
	defer span.End()

	raw, err := json.Marshal(result)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO collections (created_at, date_range, success, total_fixtures, raw_result)
		 VALUES (?, ?, ?, ?, ?)`,
		time.Now().Unix(), result.DateRange, result.Success,
		result.TotalFixtures, string(raw),
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	collectionId, err := res.LastInsertId()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}

	for seq, f := range result.Fixtures {
		extra, err := json.Marshal(f.Extra)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
		_, err = tx.ExecContext(ctx,
			`INSERT INTO fixtures (collection_id, seq, sport, date, time,
			    competition, home_team, away_team, venue, referee, source, extra)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			collectionId, seq, string(f.Sport), f.Date, f.Time,
			f.Competition, f.HomeTeam, f.AwayTeam, f.Venue, f.Referee,
			string(f.Source), string(extra),
		)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return 0, err
		}
	}

	err = tx.Commit()
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return 0, err
	}
	return collectionId, nil
}

// LatestCollectionId returns 0 without error when nothing was saved yet.
func (s Store) LatestCollectionId(ctx context.Context) (int64, error) {
	row := s.db.QueryRowContext(ctx, `SELECT id FROM collections ORDER BY id DESC LIMIT 1`)
	var id int64
	err := row.Scan(&id)
	if err == sql.ErrNoRows {
		return 0, nil
	}
	if err != nil {
		return 0, err
	}
	return id, nil
}

func (s Store) ListFixtures(ctx context.Context, collectionId int64) ([]Fixture, error) {
	ctx, span := tracer.Start(ctx, "ListFixtures")
	defer span.End()

	rows, err := s.db.QueryContext(ctx,
		`SELECT sport, date, time, competition, home_team, away_team,
		    venue, referee, source, extra
		 FROM fixtures WHERE collection_id = ? ORDER BY seq`,
		collectionId,
	)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, err
	}
	defer rows.Close()

	var fixtures []Fixture
	for rows.Next() {
		var f Fixture
		var sport, source, extra string
		err := rows.Scan(&sport, &f.Date, &f.Time, &f.Competition,
			&f.HomeTeam, &f.AwayTeam, &f.Venue, &f.Referee, &source, &extra)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		f.Sport = Sport(sport)
		f.Source = Source(source)
		err = json.Unmarshal([]byte(extra), &f.Extra)
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
			return nil, err
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, rows.Err()
}
