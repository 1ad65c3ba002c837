// Package history stores the results of finished sessions.
package history

import (
	"database/sql"
	"encoding/json"
	"log"
	"time"

	"git.lost.host/meutraa/strum/internal/game"
	_ "github.com/mattn/go-sqlite3"
	"github.com/pkg/errors"
)

// Record is one finished play of a difficulty.
type Record struct {
	Hash       string // Digest of the song's notes file
	Instrument string
	Difficulty game.Difficulty
	Rate       float64
	PlayedAt   time.Time
	Stats      game.Stats
}

// Store is a score database.
type Store struct {
	db *sql.DB
}

const schema = `
create table if not exists scores
  (
	  id integer not null primary key,
	  sum text not null,
	  instrument text not null,
	  difficulty integer not null,
	  rate real,
	  played integer,
	  score integer,
	  stats blob
  );
create index if not exists scores_chart on scores(sum, instrument, difficulty);
`

// Open opens or creates the database at path.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite3", path)
	if nil != err {
		return nil, errors.Wrapf(err, "unable to open %v", path)
	}
	if _, err := db.Exec(schema); nil != err {
		db.Close()
		return nil, errors.Wrap(err, "unable to create score table")
	}
	return &Store{db: db}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save adds a record.
func (s *Store) Save(r Record) error {
	data, err := json.Marshal(r.Stats)
	if nil != err {
		return errors.Wrap(err, "unable to marshal stats")
	}
	_, err = s.db.Exec(
		"insert into scores(sum, instrument, difficulty, rate, played, score, stats) values(?, ?, ?, ?, ?, ?, ?)",
		r.Hash, r.Instrument, int(r.Difficulty), r.Rate, r.PlayedAt.Unix(), int64(r.Stats.Score), data,
	)
	return errors.Wrap(err, "unable to save score")
}

// Load returns the records of a difficulty, highest score first.
func (s *Store) Load(hash, instrument string, difficulty game.Difficulty) ([]Record, error) {
	records := []Record{}
	rows, err := s.db.Query(
		"select rate, played, stats from scores where sum = ? and instrument = ? and difficulty = ? order by score desc, played asc",
		hash, instrument, int(difficulty),
	)
	if nil != err {
		return records, errors.Wrap(err, "unable to load scores")
	}
	defer rows.Close()

	for rows.Next() {
		var rate float64
		var played int64
		var stats []byte
		if err := rows.Scan(&rate, &played, &stats); nil != err {
			return records, errors.Wrap(err, "unable to read score")
		}
		r := Record{
			Hash:       hash,
			Instrument: instrument,
			Difficulty: difficulty,
			Rate:       rate,
			PlayedAt:   time.Unix(played, 0),
		}
		if err := json.Unmarshal(stats, &r.Stats); nil != err {
			log.Println("unable to unmarshal stats", err)
			continue
		}
		records = append(records, r)
	}
	return records, errors.WithStack(rows.Err())
}

// Best returns the highest scoring record of a difficulty, if any.
func (s *Store) Best(hash, instrument string, difficulty game.Difficulty) (Record, bool, error) {
	records, err := s.Load(hash, instrument, difficulty)
	if nil != err || len(records) == 0 {
		return Record{}, false, err
	}
	return records[0], true, nil
}
