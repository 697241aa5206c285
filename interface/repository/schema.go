package repository

import "github.com/behrang/sqlbatch"

const (
	sqlCreateMemos = `
	create table if not exists memos (
		key         text primary key,
		memo        jsonb not null,
		update_time timestamptz not null default now()
	)
`

	sqlCreateRuns = `
	create table if not exists runs (
		id               uuid primary key,
		start_time       timestamptz not null,
		finish_time      timestamptz not null,
		stage            text not null,
		outcome          text not null,
		skip_reason      text,
		error            text,
		pending_fees     numeric,
		collected        numeric,
		forwarded        numeric,
		holder_count     integer not null default 0,
		per_holder_share numeric,
		distributed      numeric,
		signatures       jsonb not null default '{}'::jsonb
	)
`

	sqlCreateRunsStartIndex = `
	create index if not exists runs_start_time_idx on runs (start_time desc)
`
)

// EnsureSchema creates the journal tables when they do not exist yet.
func EnsureSchema(db BatchHandler) error {
	_, err := db.Batch(&BatchOptionNormal, []sqlbatch.Command{
		{Query: sqlCreateMemos},
		{Query: sqlCreateRuns},
		{Query: sqlCreateRunsStartIndex},
	})
	return err
}
