package postgres

import (
	"context"

	"github.com/xraph/grove/migrate"
)

// Migrations is the grove migration group for the Tokenvest store.
var Migrations = migrate.NewGroup("tokenvest")

func init() {
	Migrations.MustRegister(
		&migrate.Migration{
			Name:    "create_tokenvest_schedules",
			Version: "20260801000001",
			Up: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `
CREATE TABLE IF NOT EXISTS tokenvest_schedules (
    beneficiary TEXT PRIMARY KEY,
    id          TEXT NOT NULL DEFAULT '',
    start_at    TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    cliff_ns    BIGINT NOT NULL DEFAULT 0,
    duration_ns BIGINT NOT NULL DEFAULT 0,
    total       TEXT NOT NULL DEFAULT '0',
    released    TEXT NOT NULL DEFAULT '0',
    revoked     BOOLEAN NOT NULL DEFAULT FALSE,
    revoked_at  TIMESTAMPTZ,
    created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW(),
    updated_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
);

CREATE INDEX IF NOT EXISTS idx_tokenvest_schedules_revoked ON tokenvest_schedules (revoked, beneficiary);
CREATE INDEX IF NOT EXISTS idx_tokenvest_schedules_created ON tokenvest_schedules (created_at);
`)
				return err
			},
			Down: func(ctx context.Context, exec migrate.Executor) error {
				_, err := exec.Exec(ctx, `DROP TABLE IF EXISTS tokenvest_schedules`)
				return err
			},
		},
	)
}
