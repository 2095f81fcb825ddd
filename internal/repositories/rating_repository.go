package repositories

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/mediarating/backend/internal/models"
)

const ratingColumns = `r.id, r.test_user_id, r.media_file_id, r.stars, r.comment, r.rated_at`

func scanRatingInto(dest []any, rt *models.Rating, comment *sql.NullString) []any {
	return append(dest, &rt.ID, &rt.TestUserID, &rt.MediaFileID, &rt.Stars, comment, &rt.RatedAt)
}

func applyComment(rt *models.Rating, comment sql.NullString) {
	rt.Comment = nil
	if comment.Valid {
		rt.Comment = &comment.String
	}
}

// ratingRepository implements RatingRepository
type ratingRepository struct {
	db *sql.DB
}

// NewRatingRepository creates a new rating repository
func NewRatingRepository(db *sql.DB) *ratingRepository {
	return &ratingRepository{
		db: db,
	}
}

// Upsert inserts a rating or overwrites stars, comment and rated_at of the existing one
// for the same participant and media file. Concurrent writers resolve to the last statement applied.
func (r *ratingRepository) Upsert(ctx context.Context, rating *models.Rating) error {
	query := `
		INSERT INTO ratings (test_user_id, media_file_id, stars, comment, rated_at)
		VALUES (?, ?, ?, ?, NOW(6))
		ON DUPLICATE KEY UPDATE
			stars = VALUES(stars),
			comment = VALUES(comment),
			rated_at = NOW(6)
	`

	if _, err := r.db.ExecContext(ctx, query, rating.TestUserID, rating.MediaFileID, rating.Stars, rating.Comment); err != nil {
		if isForeignKeyViolation(err) {
			return models.ErrMediaNotFound
		}
		return fmt.Errorf("failed to upsert rating: %w", err)
	}

	stored, err := r.GetByUserAndMedia(ctx, rating.TestUserID, rating.MediaFileID)
	if err != nil {
		return err
	}
	*rating = *stored

	return nil
}

// GetByUserAndMedia retrieves the rating a participant gave to a media file
func (r *ratingRepository) GetByUserAndMedia(ctx context.Context, testUserID, mediaFileID int) (*models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings r WHERE r.test_user_id = ? AND r.media_file_id = ?`

	rating := &models.Rating{}
	var comment sql.NullString
	err := r.db.QueryRowContext(ctx, query, testUserID, mediaFileID).Scan(scanRatingInto(nil, rating, &comment)...)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: rating not found", models.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get rating: %w", err)
	}
	applyComment(rating, comment)

	return rating, nil
}

// ListByTestUser retrieves all ratings of a participant in insertion order
func (r *ratingRepository) ListByTestUser(ctx context.Context, testUserID int) ([]models.Rating, error) {
	query := `SELECT ` + ratingColumns + ` FROM ratings r WHERE r.test_user_id = ? ORDER BY r.id`

	rows, err := r.db.QueryContext(ctx, query, testUserID)
	if err != nil {
		return nil, fmt.Errorf("failed to query ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.Rating, 0)
	for rows.Next() {
		var (
			rt      models.Rating
			comment sql.NullString
		)
		if err := rows.Scan(scanRatingInto(nil, &rt, &comment)...); err != nil {
			return nil, fmt.Errorf("failed to scan rating: %w", err)
		}
		applyComment(&rt, comment)
		ratings = append(ratings, rt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ratings: %w", err)
	}

	return ratings, nil
}

// ListByTest retrieves every rating given by participants of a test, newest first,
// joined with the participant email and the media file
func (r *ratingRepository) ListByTest(ctx context.Context, testID int) ([]models.IndividualRating, error) {
	query := `
		SELECT ` + ratingColumns + `, tu.email, ` + mediaColumns + `
		FROM ratings r
		INNER JOIN test_users tu ON tu.id = r.test_user_id
		INNER JOIN media_files m ON m.id = r.media_file_id
		WHERE tu.test_id = ?
		ORDER BY r.rated_at DESC, r.id DESC
	`

	rows, err := r.db.QueryContext(ctx, query, testID)
	if err != nil {
		return nil, fmt.Errorf("failed to query test ratings: %w", err)
	}
	defer rows.Close()

	ratings := make([]models.IndividualRating, 0)
	for rows.Next() {
		var (
			ir      models.IndividualRating
			comment sql.NullString
		)
		dest := scanRatingInto(nil, &ir.Rating, &comment)
		dest = append(dest, &ir.UserEmail,
			&ir.MediaFile.ID, &ir.MediaFile.Filename, &ir.MediaFile.StoragePath,
			&ir.MediaFile.MediaType, &ir.MediaFile.MimeType, &ir.MediaFile.UploadedAt,
		)
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan test rating: %w", err)
		}
		applyComment(&ir.Rating, comment)
		ratings = append(ratings, ir)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating test ratings: %w", err)
	}

	return ratings, nil
}
