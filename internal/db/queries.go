package db

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// scanner is the common interface satisfied by both *sql.Row and *sql.Rows,
// allowing a single scan function per entity.
type scanner interface {
	Scan(dest ...any) error
}

// ErrNotFound is returned when a read, update or delete targets a
// non-existent row. Callers use it to distinguish "missing" from failure.
var ErrNotFound = errors.New("record not found")

// now returns the current time formatted as RFC3339 for storage.
func now() string {
	return time.Now().UTC().Format(time.RFC3339)
}

// parseTime parses an RFC3339 string into time.Time.
func parseTime(s string) (time.Time, error) {
	return time.Parse(time.RFC3339, s)
}

// ---------------------------------------------------------------------------
// Agents
// ---------------------------------------------------------------------------

// AgentFilter narrows ListAgents. Zero value lists everything.
type AgentFilter struct {
	Query  string // case-insensitive substring over name and description
	Status string // exact status match when non-empty
}

// CreateAgent inserts a new agent and returns it. A missing ID is generated;
// a missing status defaults to draft.
func (d *DB) CreateAgent(ctx context.Context, a Agent) (*Agent, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	if a.Status == "" {
		a.Status = AgentStatusDraft
	}
	if !ValidAgentStatus(a.Status) {
		return nil, fmt.Errorf("create agent: invalid status %q", a.Status)
	}

	ts := now()
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO agents (id, name, description, industry, function, model,
		                     voice_provider, voice_name, system_prompt, status,
		                     created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Name, a.Description, a.Industry, a.Function, a.Model,
		a.VoiceProvider, a.VoiceName, a.SystemPrompt, a.Status, ts, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("create agent: %w", err)
	}

	created, err := parseTime(ts)
	if err != nil {
		return nil, fmt.Errorf("create agent: parse time: %w", err)
	}
	a.CreatedAt = created
	a.UpdatedAt = created
	return &a, nil
}

// GetAgent returns a single agent by ID, or ErrNotFound.
func (d *DB) GetAgent(ctx context.Context, id string) (*Agent, error) {
	row := d.conn.QueryRowContext(ctx,
		`SELECT id, name, description, industry, function, model,
		        voice_provider, voice_name, system_prompt, status,
		        created_at, updated_at
		 FROM agents WHERE id = ?`, id,
	)
	a, err := scanAgent(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("get agent %s: %w", id, ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get agent %s: %w", id, err)
	}
	return a, nil
}

// ListAgents returns agents matching the filter, most recently updated first.
func (d *DB) ListAgents(ctx context.Context, f AgentFilter) ([]Agent, error) {
	q := `SELECT id, name, description, industry, function, model,
	             voice_provider, voice_name, system_prompt, status,
	             created_at, updated_at
	      FROM agents`
	var conds []string
	var args []any
	if f.Query != "" {
		conds = append(conds, `(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)`)
		like := "%" + strings.ToLower(f.Query) + "%"
		args = append(args, like, like)
	}
	if f.Status != "" {
		conds = append(conds, `status = ?`)
		args = append(args, f.Status)
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY updated_at DESC"

	rows, err := d.conn.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	defer rows.Close()

	var out []Agent
	for rows.Next() {
		a, err := scanAgent(rows)
		if err != nil {
			return nil, fmt.Errorf("list agents: %w", err)
		}
		out = append(out, *a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list agents: %w", err)
	}
	return out, nil
}

// UpdateAgent overwrites the mutable fields of an agent and returns the
// stored record. Returns ErrNotFound if the agent does not exist.
func (d *DB) UpdateAgent(ctx context.Context, a Agent) (*Agent, error) {
	if a.Status != "" && !ValidAgentStatus(a.Status) {
		return nil, fmt.Errorf("update agent: invalid status %q", a.Status)
	}

	ts := now()
	res, err := d.conn.ExecContext(ctx,
		`UPDATE agents
		 SET name = ?, description = ?, industry = ?, function = ?, model = ?,
		     voice_provider = ?, voice_name = ?, system_prompt = ?, status = ?,
		     updated_at = ?
		 WHERE id = ?`,
		a.Name, a.Description, a.Industry, a.Function, a.Model,
		a.VoiceProvider, a.VoiceName, a.SystemPrompt, a.Status, ts, a.ID,
	)
	if err != nil {
		return nil, fmt.Errorf("update agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return nil, fmt.Errorf("update agent: rows affected: %w", err)
	}
	if n == 0 {
		return nil, fmt.Errorf("update agent %s: %w", a.ID, ErrNotFound)
	}
	return d.GetAgent(ctx, a.ID)
}

// DeleteAgent removes an agent and (via cascade) its channels and recordings.
func (d *DB) DeleteAgent(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM agents WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete agent: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete agent: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete agent %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanAgent scans one agent row.
func scanAgent(s scanner) (*Agent, error) {
	var a Agent
	var created, updated string
	if err := s.Scan(&a.ID, &a.Name, &a.Description, &a.Industry, &a.Function,
		&a.Model, &a.VoiceProvider, &a.VoiceName, &a.SystemPrompt, &a.Status,
		&created, &updated); err != nil {
		return nil, err
	}
	var err error
	if a.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	if a.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &a, nil
}

// ---------------------------------------------------------------------------
// Channels
// ---------------------------------------------------------------------------

// GetChannel returns one channel config for an agent. A channel with no
// stored row reads as disabled with empty details rather than an error.
func (d *DB) GetChannel(ctx context.Context, agentID, channel string) (*ChannelConfig, error) {
	if !ValidChannel(channel) {
		return nil, fmt.Errorf("get channel: invalid channel %q", channel)
	}

	row := d.conn.QueryRowContext(ctx,
		`SELECT agent_id, channel, enabled, details, updated_at
		 FROM channels WHERE agent_id = ? AND channel = ?`, agentID, channel,
	)
	cc, err := scanChannel(row)
	if errors.Is(err, sql.ErrNoRows) {
		return &ChannelConfig{AgentID: agentID, Channel: channel}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get channel %s/%s: %w", agentID, channel, err)
	}
	return cc, nil
}

// ListChannels returns the agent's config for every channel in the fixed
// enum, merging stored rows over disabled defaults.
func (d *DB) ListChannels(ctx context.Context, agentID string) ([]ChannelConfig, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT agent_id, channel, enabled, details, updated_at
		 FROM channels WHERE agent_id = ?`, agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}
	defer rows.Close()

	stored := make(map[string]ChannelConfig)
	for rows.Next() {
		cc, err := scanChannel(rows)
		if err != nil {
			return nil, fmt.Errorf("list channels: %w", err)
		}
		stored[cc.Channel] = *cc
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list channels: %w", err)
	}

	out := make([]ChannelConfig, 0, len(Channels))
	for _, ch := range Channels {
		if cc, ok := stored[ch]; ok {
			out = append(out, cc)
			continue
		}
		out = append(out, ChannelConfig{AgentID: agentID, Channel: ch})
	}
	return out, nil
}

// PutChannel upserts a single channel's config. Other channels are untouched.
func (d *DB) PutChannel(ctx context.Context, cc ChannelConfig) error {
	if !ValidChannel(cc.Channel) {
		return fmt.Errorf("put channel: invalid channel %q", cc.Channel)
	}

	enabled := 0
	if cc.Enabled {
		enabled = 1
	}
	_, err := d.conn.ExecContext(ctx,
		`INSERT INTO channels (agent_id, channel, enabled, details, updated_at)
		 VALUES (?, ?, ?, ?, ?)
		 ON CONFLICT(agent_id, channel)
		 DO UPDATE SET enabled = excluded.enabled, details = excluded.details,
		               updated_at = excluded.updated_at`,
		cc.AgentID, cc.Channel, enabled, cc.Details, now(),
	)
	if err != nil {
		return fmt.Errorf("put channel %s/%s: %w", cc.AgentID, cc.Channel, err)
	}
	return nil
}

// scanChannel scans one channel row.
func scanChannel(s scanner) (*ChannelConfig, error) {
	var cc ChannelConfig
	var enabled int
	var updated string
	if err := s.Scan(&cc.AgentID, &cc.Channel, &enabled, &cc.Details, &updated); err != nil {
		return nil, err
	}
	cc.Enabled = enabled != 0
	var err error
	if cc.UpdatedAt, err = parseTime(updated); err != nil {
		return nil, fmt.Errorf("parse updated_at: %w", err)
	}
	return &cc, nil
}

// ---------------------------------------------------------------------------
// Recordings
// ---------------------------------------------------------------------------

// InsertRecording persists a completed session's recording.
func (d *DB) InsertRecording(ctx context.Context, r Recording) (*Recording, error) {
	if r.ID == "" {
		r.ID = uuid.NewString()
	}
	if !ValidRecordingKind(r.Kind) {
		return nil, fmt.Errorf("insert recording: invalid kind %q", r.Kind)
	}

	transcript, err := json.Marshal(r.Transcript)
	if err != nil {
		return nil, fmt.Errorf("insert recording: marshal transcript: %w", err)
	}
	training := 0
	if r.Training {
		training = 1
	}

	ts := now()
	_, err = d.conn.ExecContext(ctx,
		`INSERT INTO recordings (id, agent_id, title, duration, kind, transcript, training, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		r.ID, r.AgentID, r.Title, r.Duration, r.Kind, string(transcript), training, ts,
	)
	if err != nil {
		return nil, fmt.Errorf("insert recording: %w", err)
	}

	created, err := parseTime(ts)
	if err != nil {
		return nil, fmt.Errorf("insert recording: parse time: %w", err)
	}
	r.CreatedAt = created
	return &r, nil
}

// ListRecordings returns an agent's recordings, newest first.
func (d *DB) ListRecordings(ctx context.Context, agentID string) ([]Recording, error) {
	rows, err := d.conn.QueryContext(ctx,
		`SELECT id, agent_id, title, duration, kind, transcript, training, created_at
		 FROM recordings WHERE agent_id = ? ORDER BY created_at DESC`, agentID,
	)
	if err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	defer rows.Close()

	var out []Recording
	for rows.Next() {
		r, err := scanRecording(rows)
		if err != nil {
			return nil, fmt.Errorf("list recordings: %w", err)
		}
		out = append(out, *r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list recordings: %w", err)
	}
	return out, nil
}

// DeleteRecording removes a recording by id.
func (d *DB) DeleteRecording(ctx context.Context, id string) error {
	res, err := d.conn.ExecContext(ctx, `DELETE FROM recordings WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete recording: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete recording: rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("delete recording %s: %w", id, ErrNotFound)
	}
	return nil
}

// scanRecording scans one recording row.
func scanRecording(s scanner) (*Recording, error) {
	var r Recording
	var transcript, created string
	var training int
	if err := s.Scan(&r.ID, &r.AgentID, &r.Title, &r.Duration, &r.Kind,
		&transcript, &training, &created); err != nil {
		return nil, err
	}
	if err := json.Unmarshal([]byte(transcript), &r.Transcript); err != nil {
		return nil, fmt.Errorf("unmarshal transcript: %w", err)
	}
	r.Training = training != 0
	var err error
	if r.CreatedAt, err = parseTime(created); err != nil {
		return nil, fmt.Errorf("parse created_at: %w", err)
	}
	return &r, nil
}
