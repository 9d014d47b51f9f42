package history

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"time"

	"git.lost.host/meutraa/keyfall/internal/game"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"
)

type DefaultRecorder struct {
	db *sql.DB
}

type InputsCompact struct {
	Lane  game.Lane
	Times []time.Duration
}

// compactInputs groups the inputs by lane, keeping their order within a lane.
func compactInputs(inputs []game.Input) []InputsCompact {
	laneCount := 0
	for _, i := range inputs {
		if int(i.Lane) >= laneCount {
			laneCount = int(i.Lane) + 1
		}
	}
	ins := make([]InputsCompact, laneCount)
	for l := range ins {
		ins[l].Lane = game.Lane(l)
		ins[l].Times = []time.Duration{}
	}
	for _, i := range inputs {
		ins[i.Lane].Times = append(ins[i.Lane].Times, i.HitTime)
	}
	return ins
}

// uncompactInputs restores the inputs ordered by time.
func uncompactInputs(inputs []InputsCompact) []game.Input {
	ins := []game.Input{}
	for _, i := range inputs {
		for _, t := range i.Times {
			ins = append(ins, game.Input{Lane: i.Lane, HitTime: t})
		}
	}
	sort.SliceStable(ins, func(a, b int) bool { return ins[a].HitTime < ins[b].HitTime })
	return ins
}

func (s *DefaultRecorder) Init(path string) error {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return err
	}

	initStatement := `
	create table if not exists plays
	  (
		  id text not null primary key,
		  sum text not null,
		  title text,
		  played_at integer,
		  lead_in integer,
		  counts text,
		  inputs blob
	  );
	create index if not exists plays_sum on plays(sum);
	`
	_, err = db.Exec(initStatement)
	if nil != err {
		db.Close()
		return fmt.Errorf("unable to create history tables: %w", err)
	}

	s.db = db
	return nil
}

func (s *DefaultRecorder) Deinit() {
	if nil != s.db {
		s.db.Close()
	}
}

func (s *DefaultRecorder) Save(c *game.Chart, play *Play) error {
	if play.ID == "" {
		play.ID = uuid.NewString()
	}
	if play.PlayedAt.IsZero() {
		play.PlayedAt = time.Now()
	}
	play.Sum = c.Hash()
	play.Title = c.Title

	counts, err := json.Marshal(play.Counts)
	if nil != err {
		return fmt.Errorf("unable to marshal counts: %w", err)
	}
	inputs, err := json.Marshal(compactInputs(play.Inputs))
	if nil != err {
		return fmt.Errorf("unable to marshal inputs: %w", err)
	}
	_, err = s.db.Exec(
		"insert into plays(id, sum, title, played_at, lead_in, counts, inputs) values(?, ?, ?, ?, ?, ?, ?)",
		play.ID, play.Sum, play.Title, play.PlayedAt.UnixMilli(), int64(play.LeadIn), string(counts), inputs,
	)
	if nil != err {
		return fmt.Errorf("unable to save play: %w", err)
	}
	return nil
}

func (s *DefaultRecorder) Load(c *game.Chart) ([]Play, error) {
	plays := []Play{}
	rows, err := s.db.Query(
		"select id, sum, title, played_at, lead_in, counts, inputs from plays where sum = ? order by played_at desc",
		c.Hash(),
	)
	if nil != err {
		return plays, fmt.Errorf("unable to load plays: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var p Play
		var playedAt, leadIn int64
		var counts string
		var inputs []byte
		if err := rows.Scan(&p.ID, &p.Sum, &p.Title, &playedAt, &leadIn, &counts, &inputs); nil != err {
			return plays, fmt.Errorf("unable to read play: %w", err)
		}
		if err := json.Unmarshal([]byte(counts), &p.Counts); nil != err {
			return plays, fmt.Errorf("unable to unmarshal counts of %v: %w", p.ID, err)
		}
		var ins []InputsCompact
		if err := json.Unmarshal(inputs, &ins); nil != err {
			return plays, fmt.Errorf("unable to unmarshal inputs of %v: %w", p.ID, err)
		}
		p.Inputs = uncompactInputs(ins)
		p.PlayedAt = time.UnixMilli(playedAt)
		p.LeadIn = time.Duration(leadIn)
		plays = append(plays, p)
	}
	return plays, rows.Err()
}
