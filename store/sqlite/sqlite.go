/*
Package sqlite provides a SQLite-backed implementation of store.DatasetStore.

PURPOSE:
  Persists uploaded datasets across restarts. Each dataset lives in its own
  table; an upload replaces the whole table inside one SQL transaction so
  readers never observe a partially-replaced dataset.

FIDELITY:
  Business keys (influencer_id, post_id, tracking_id) are deliberately NOT
  primary keys: source files may carry duplicates, and detecting those is
  the reconciler's job. Rows keep their file order via the rowid.

TYPES:
  Currency amounts are stored as TEXT and parsed back through decimal, so
  no precision is lost round-tripping. Dates are stored as YYYY-MM-DD.

USAGE:
  st, err := sqlite.New("./data/campaigns.db")
  if err != nil {
      log.Fatal(err)
  }
  defer st.Close()

SEE ALSO:
  - store/store.go: Interface definition
  - store/memory: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"

	"github.com/gitraun/healthkart-influencer-dashboard/campaign"
)

// Store implements store.DatasetStore using SQLite.
type Store struct {
	db *sql.DB
}

// New opens (or creates) the database at dbPath. Use ":memory:" for an
// in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	s := &Store{db: db}
	if err := s.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS influencers (
		influencer_id TEXT NOT NULL,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		gender TEXT NOT NULL,
		follower_count INTEGER NOT NULL,
		platform TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS posts (
		post_id TEXT NOT NULL,
		influencer_id TEXT NOT NULL,
		platform TEXT NOT NULL,
		date TEXT NOT NULL,
		reach INTEGER NOT NULL,
		likes INTEGER NOT NULL,
		comments INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_posts_influencer ON posts(influencer_id);

	CREATE TABLE IF NOT EXISTS tracking_records (
		tracking_id TEXT NOT NULL,
		influencer_id TEXT NOT NULL,
		campaign TEXT NOT NULL,
		brand TEXT NOT NULL,
		product TEXT NOT NULL,
		date TEXT NOT NULL,
		orders INTEGER NOT NULL,
		revenue TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_tracking_influencer ON tracking_records(influencer_id);

	CREATE TABLE IF NOT EXISTS payouts (
		influencer_id TEXT NOT NULL,
		basis TEXT NOT NULL,
		rate TEXT NOT NULL,
		orders INTEGER NOT NULL,
		total_payout TEXT,
		has_total BOOLEAN NOT NULL
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

// replaceAll swaps a whole table inside one transaction.
func (s *Store) replaceAll(ctx context.Context, table string, insert string, rows func(stmt *sql.Stmt) error) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
		return err
	}
	stmt, err := tx.PrepareContext(ctx, insert)
	if err != nil {
		return err
	}
	defer stmt.Close()
	if err := rows(stmt); err != nil {
		return err
	}
	return tx.Commit()
}

const dateLayout = "2006-01-02"

func (s *Store) ReplaceInfluencers(ctx context.Context, rows []campaign.Influencer) error {
	return s.replaceAll(ctx, "influencers",
		`INSERT INTO influencers (influencer_id, name, category, gender, follower_count, platform)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				if _, err := stmt.ExecContext(ctx, string(r.ID), r.Name, r.Category, r.Gender, r.FollowerCount, r.Platform); err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) ReplacePosts(ctx context.Context, rows []campaign.Post) error {
	return s.replaceAll(ctx, "posts",
		`INSERT INTO posts (post_id, influencer_id, platform, date, reach, likes, comments)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				if _, err := stmt.ExecContext(ctx, string(r.ID), string(r.InfluencerID), r.Platform,
					r.Date.Format(dateLayout), r.Reach, r.Likes, r.Comments); err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) ReplaceTracking(ctx context.Context, rows []campaign.TrackingRecord) error {
	return s.replaceAll(ctx, "tracking_records",
		`INSERT INTO tracking_records (tracking_id, influencer_id, campaign, brand, product, date, orders, revenue)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				if _, err := stmt.ExecContext(ctx, string(r.ID), string(r.InfluencerID), r.Campaign, r.Brand,
					r.Product, r.Date.Format(dateLayout), r.Orders, r.Revenue.String()); err != nil {
					return err
				}
			}
			return nil
		})
}

func (s *Store) ReplacePayouts(ctx context.Context, rows []campaign.Payout) error {
	return s.replaceAll(ctx, "payouts",
		`INSERT INTO payouts (influencer_id, basis, rate, orders, total_payout, has_total)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		func(stmt *sql.Stmt) error {
			for _, r := range rows {
				var total any
				if r.HasTotal {
					total = r.TotalPayout.String()
				}
				if _, err := stmt.ExecContext(ctx, string(r.InfluencerID), string(r.Basis),
					r.Rate.String(), r.Orders, total, r.HasTotal); err != nil {
					return err
				}
			}
			return nil
		})
}

// Reset clears all four tables.
func (s *Store) Reset(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()
	for _, table := range []string{"influencers", "posts", "tracking_records", "payouts"} {
		if _, err := tx.ExecContext(ctx, "DELETE FROM "+table); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// Snapshot materializes all four tables in file order.
func (s *Store) Snapshot(ctx context.Context) (*campaign.Snapshot, error) {
	snap := &campaign.Snapshot{}

	if err := s.loadInfluencers(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPosts(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadTracking(ctx, snap); err != nil {
		return nil, err
	}
	if err := s.loadPayouts(ctx, snap); err != nil {
		return nil, err
	}
	return snap, nil
}

func (s *Store) loadInfluencers(ctx context.Context, snap *campaign.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT influencer_id, name, category, gender, follower_count, platform FROM influencers ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r campaign.Influencer
		var id string
		if err := rows.Scan(&id, &r.Name, &r.Category, &r.Gender, &r.FollowerCount, &r.Platform); err != nil {
			return err
		}
		r.ID = campaign.InfluencerID(id)
		snap.Influencers = append(snap.Influencers, r)
	}
	return rows.Err()
}

func (s *Store) loadPosts(ctx context.Context, snap *campaign.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT post_id, influencer_id, platform, date, reach, likes, comments FROM posts ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r campaign.Post
		var id, infID, date string
		if err := rows.Scan(&id, &infID, &r.Platform, &date, &r.Reach, &r.Likes, &r.Comments); err != nil {
			return err
		}
		r.ID = campaign.PostID(id)
		r.InfluencerID = campaign.InfluencerID(infID)
		r.Date, _ = time.Parse(dateLayout, date)
		snap.Posts = append(snap.Posts, r)
	}
	return rows.Err()
}

func (s *Store) loadTracking(ctx context.Context, snap *campaign.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT tracking_id, influencer_id, campaign, brand, product, date, orders, revenue
		 FROM tracking_records ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r campaign.TrackingRecord
		var id, infID, date, revenue string
		if err := rows.Scan(&id, &infID, &r.Campaign, &r.Brand, &r.Product, &date, &r.Orders, &revenue); err != nil {
			return err
		}
		r.ID = campaign.TrackingID(id)
		r.InfluencerID = campaign.InfluencerID(infID)
		r.Date, _ = time.Parse(dateLayout, date)
		d, err := decimal.NewFromString(revenue)
		if err != nil {
			return fmt.Errorf("tracking %s: bad revenue %q: %w", id, revenue, err)
		}
		r.Revenue = d
		snap.Tracking = append(snap.Tracking, r)
	}
	return rows.Err()
}

func (s *Store) loadPayouts(ctx context.Context, snap *campaign.Snapshot) error {
	rows, err := s.db.QueryContext(ctx,
		`SELECT influencer_id, basis, rate, orders, total_payout, has_total FROM payouts ORDER BY rowid`)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var r campaign.Payout
		var infID, basis, rate string
		var total sql.NullString
		if err := rows.Scan(&infID, &basis, &rate, &r.Orders, &total, &r.HasTotal); err != nil {
			return err
		}
		r.InfluencerID = campaign.InfluencerID(infID)
		r.Basis = campaign.PayoutBasis(basis)
		d, err := decimal.NewFromString(rate)
		if err != nil {
			return fmt.Errorf("payout %s: bad rate %q: %w", infID, rate, err)
		}
		r.Rate = d
		if r.HasTotal && total.Valid {
			t, err := decimal.NewFromString(total.String)
			if err != nil {
				return fmt.Errorf("payout %s: bad total_payout %q: %w", infID, total.String, err)
			}
			r.TotalPayout = t
		} else {
			r.HasTotal = false
			r.TotalPayout = decimal.Zero
		}
		snap.Payouts = append(snap.Payouts, r)
	}
	return rows.Err()
}
