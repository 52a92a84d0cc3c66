package businesses

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNotFound  = errors.New("business not found")
	ErrSlugTaken = errors.New("slug already taken in this locality")
)

const columns = `
  id, slug, name, locality, category,
  description, phone, website, email, address, image_url,
  opening_hours, rating, verified, created_at, updated_at`

type Repo struct {
	pg *pgxpool.Pool
}

func NewRepo(pg *pgxpool.Pool) *Repo {
	return &Repo{pg: pg}
}

func (r *Repo) FindBySlug(ctx context.Context, locality, slug string) (*Business, error) {
	q := `SELECT` + columns + `
FROM businesses
WHERE locality = $1 AND slug = $2
LIMIT 1`
	return scanBusiness(r.pg.QueryRow(ctx, q, locality, slug))
}

func (r *Repo) FindByID(ctx context.Context, id uuid.UUID) (*Business, error) {
	q := `SELECT` + columns + `
FROM businesses
WHERE id = $1
LIMIT 1`
	return scanBusiness(r.pg.QueryRow(ctx, q, id))
}

// ListByCategory returns one page of a locality's category listing, verified
// businesses first.
func (r *Repo) ListByCategory(ctx context.Context, locality, category string, limit, offset int) ([]Business, int, error) {
	var total int
	err := r.pg.QueryRow(ctx,
		`SELECT count(*) FROM businesses WHERE locality = $1 AND category = $2`,
		locality, category,
	).Scan(&total)
	if err != nil {
		return nil, 0, err
	}

	q := `SELECT` + columns + `
FROM businesses
WHERE locality = $1 AND category = $2
ORDER BY verified DESC, rating DESC NULLS LAST, name
LIMIT $3 OFFSET $4`
	rows, err := r.pg.Query(ctx, q, locality, category, limit, offset)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	list := []Business{}
	for rows.Next() {
		b, err := scanBusiness(rows)
		if err != nil {
			return nil, 0, err
		}
		list = append(list, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, err
	}
	return list, total, nil
}

func (r *Repo) Localities(ctx context.Context) ([]Locality, error) {
	rows, err := r.pg.Query(ctx, `
SELECT locality, count(*)
FROM businesses
GROUP BY locality
ORDER BY locality`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := []Locality{}
	for rows.Next() {
		var l Locality
		if err := rows.Scan(&l.Slug, &l.Count); err != nil {
			return nil, err
		}
		out = append(out, l)
	}
	return out, rows.Err()
}

func (r *Repo) Create(ctx context.Context, nb NewBusiness) (*Business, error) {
	q := `
INSERT INTO businesses (slug, name, locality, category, description, phone, website, email, address, image_url, created_at, updated_at)
VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, now(), now())
RETURNING` + columns
	b, err := scanBusiness(r.pg.QueryRow(ctx, q,
		nb.Slug, nb.Name, nb.Locality, nb.Category,
		nb.Description, nb.Phone, nb.Website, nb.Email, nb.Address, nb.ImageURL,
	))
	if isUniqueViolation(err) {
		return nil, ErrSlugTaken
	}
	return b, err
}

func (r *Repo) Update(ctx context.Context, id uuid.UUID, p Patch) (*Business, error) {
	q := `
UPDATE businesses
SET name = COALESCE($2, name),
    category = COALESCE($3, category),
    description = COALESCE($4, description),
    phone = COALESCE($5, phone),
    website = COALESCE($6, website),
    email = COALESCE($7, email),
    address = COALESCE($8, address),
    image_url = COALESCE($9, image_url),
    opening_hours = COALESCE($10, opening_hours),
    rating = COALESCE($11, rating),
    verified = COALESCE($12, verified),
    updated_at = now()
WHERE id = $1
RETURNING` + columns
	return scanBusiness(r.pg.QueryRow(ctx, q, id,
		p.Name, p.Category, p.Description, p.Phone, p.Website, p.Email,
		p.Address, p.ImageURL, p.OpeningHours, p.Rating, p.Verified,
	))
}

// Delete removes the business and returns the row as it was.
func (r *Repo) Delete(ctx context.Context, id uuid.UUID) (*Business, error) {
	q := `DELETE FROM businesses WHERE id = $1 RETURNING` + columns
	return scanBusiness(r.pg.QueryRow(ctx, q, id))
}

func scanBusiness(row pgx.Row) (*Business, error) {
	var b Business
	err := row.Scan(
		&b.ID, &b.Slug, &b.Name, &b.Locality, &b.Category,
		&b.Description, &b.Phone, &b.Website, &b.Email, &b.Address, &b.ImageURL,
		&b.OpeningHours, &b.Rating, &b.Verified, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &b, nil
}

func isUniqueViolation(err error) bool {
	var pgErr *pgconn.PgError
	return errors.As(err, &pgErr) && pgErr.Code == "23505"
}
