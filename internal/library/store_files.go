package library

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"arrscore/internal/media"
)

const fileColumns = "unique_identifier, service_type, file_id, title, relative_path, total_score, custom_formats_json, quality_profile_id, quality_profile_name, quality, codec, resolution, size_bytes, movie_id, imdb_id, tmdb_id, series_id, season_number, episode_number, episode_title, tvdb_id, recorded_at"

// Upsert inserts or overwrites the record for file's unique identifier. When
// an existing record's score differs, a history event is appended in the same
// transaction; equal scores update metadata without recording history. Older
// rows for the same movie or episode (a replaced physical file) are removed.
func (s *Store) Upsert(ctx context.Context, file *media.MediaFile) (UpsertResult, error) {
	if file == nil {
		return UpsertResult{}, errors.New("file is nil")
	}
	uniqueID := file.UniqueID()
	now := time.Now().UTC()
	if file.RecordedAt.IsZero() {
		file.RecordedAt = now
	}

	formatsJSON, err := json.Marshal(file.CustomFormats)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("marshal custom formats: %w", err)
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UpsertResult{}, fmt.Errorf("begin upsert tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result := UpsertResult{}
	result.Superseded, err = removeSupersededRows(ctx, tx, file)
	if err != nil {
		return UpsertResult{}, err
	}

	var previous sql.NullInt64
	err = tx.QueryRowContext(ctx,
		`SELECT total_score FROM media_files WHERE unique_identifier = ?`, uniqueID,
	).Scan(&previous)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		result.Created = true
	case err != nil:
		return UpsertResult{}, fmt.Errorf("lookup existing file: %w", err)
	}

	if result.Created {
		_, err = tx.ExecContext(ctx,
			`INSERT INTO media_files (`+fileColumns+`) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
			upsertArgs(file, uniqueID, string(formatsJSON))...,
		)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("insert file: %w", err)
		}
	} else {
		result.PreviousScore = int(previous.Int64)
		_, err = tx.ExecContext(ctx,
			`UPDATE media_files SET
                service_type = ?, file_id = ?, title = ?, relative_path = ?, total_score = ?,
                custom_formats_json = ?, quality_profile_id = ?, quality_profile_name = ?,
                quality = ?, codec = ?, resolution = ?, size_bytes = ?,
                movie_id = ?, imdb_id = ?, tmdb_id = ?, series_id = ?,
                season_number = ?, episode_number = ?, episode_title = ?, tvdb_id = ?,
                recorded_at = ?
             WHERE unique_identifier = ?`,
			append(upsertArgs(file, uniqueID, string(formatsJSON))[1:], uniqueID)...,
		)
		if err != nil {
			return UpsertResult{}, fmt.Errorf("update file: %w", err)
		}

		if result.PreviousScore != file.TotalScore {
			result.ScoreChanged = true
			event, eventErr := media.NewScoreHistoryEvent(uniqueID, now, result.PreviousScore, file.TotalScore)
			if eventErr != nil {
				return UpsertResult{}, eventErr
			}
			if err := insertHistoryEvent(ctx, tx, event); err != nil {
				return UpsertResult{}, err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return UpsertResult{}, fmt.Errorf("commit upsert: %w", err)
	}
	return result, nil
}

// removeSupersededRows deletes rows pointing at older physical files for the
// same movie or episode. The incoming row will be the only file on record.
func removeSupersededRows(ctx context.Context, tx *sql.Tx, file *media.MediaFile) (int, error) {
	var res sql.Result
	var err error
	switch file.Service {
	case media.ServiceRadarr:
		if file.MovieID == 0 {
			return 0, nil
		}
		res, err = tx.ExecContext(ctx,
			`DELETE FROM media_files WHERE service_type = ? AND movie_id = ? AND file_id != ?`,
			file.Service, file.MovieID, file.FileID,
		)
	case media.ServiceSonarr:
		if file.SeriesID == 0 {
			return 0, nil
		}
		res, err = tx.ExecContext(ctx,
			`DELETE FROM media_files
             WHERE service_type = ? AND series_id = ? AND season_number = ? AND episode_number = ? AND file_id != ?`,
			file.Service, file.SeriesID, file.SeasonNumber, file.EpisodeNumber, file.FileID,
		)
	default:
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("remove superseded rows: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("rows affected: %w", err)
	}
	return int(affected), nil
}

func upsertArgs(file *media.MediaFile, uniqueID, formatsJSON string) []any {
	return []any{
		uniqueID,
		file.Service,
		file.FileID,
		file.Title,
		nullableString(file.RelativePath),
		file.TotalScore,
		formatsJSON,
		nullableInt64(file.QualityProfileID),
		nullableString(file.QualityProfileName),
		nullableString(file.Quality),
		nullableString(file.Codec),
		nullableString(file.Resolution),
		nullableInt64(file.SizeBytes),
		nullableInt64(file.MovieID),
		nullableString(file.IMDBID),
		nullableInt64(file.TMDBID),
		nullableInt64(file.SeriesID),
		file.SeasonNumber,
		file.EpisodeNumber,
		nullableString(file.EpisodeTitle),
		nullableInt64(file.TVDBID),
		file.RecordedAt.UTC().Format(timeLayout),
	}
}

// GetByUniqueID fetches a single file record, returning nil when absent.
func (s *Store) GetByUniqueID(ctx context.Context, uniqueID string) (*media.MediaFile, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT `+fileColumns+` FROM media_files WHERE unique_identifier = ?`, uniqueID)
	file, err := scanFile(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}
	return file, nil
}

// FilesByService returns every record in a service partition in a stable
// order (title, then unique identifier).
func (s *Store) FilesByService(ctx context.Context, service media.ServiceType) ([]*media.MediaFile, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT `+fileColumns+` FROM media_files WHERE service_type = ? ORDER BY title, unique_identifier`,
		service,
	)
	if err != nil {
		return nil, fmt.Errorf("query files by service: %w", err)
	}
	defer rows.Close()

	var files []*media.MediaFile
	for rows.Next() {
		file, err := scanFile(rows)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, rows.Err()
}

func scanFile(scanner interface{ Scan(dest ...any) error }) (*media.MediaFile, error) {
	var (
		uniqueID      string
		serviceStr    string
		fileID        int64
		title         string
		relativePath  sql.NullString
		totalScore    int
		formatsJSON   sql.NullString
		profileID     sql.NullInt64
		profileName   sql.NullString
		quality       sql.NullString
		codec         sql.NullString
		resolution    sql.NullString
		sizeBytes     sql.NullInt64
		movieID       sql.NullInt64
		imdbID        sql.NullString
		tmdbID        sql.NullInt64
		seriesID      sql.NullInt64
		seasonNumber  sql.NullInt64
		episodeNumber sql.NullInt64
		episodeTitle  sql.NullString
		tvdbID        sql.NullInt64
		recordedRaw   string
	)

	if err := scanner.Scan(
		&uniqueID,
		&serviceStr,
		&fileID,
		&title,
		&relativePath,
		&totalScore,
		&formatsJSON,
		&profileID,
		&profileName,
		&quality,
		&codec,
		&resolution,
		&sizeBytes,
		&movieID,
		&imdbID,
		&tmdbID,
		&seriesID,
		&seasonNumber,
		&episodeNumber,
		&episodeTitle,
		&tvdbID,
		&recordedRaw,
	); err != nil {
		return nil, err
	}

	file := &media.MediaFile{
		Service:            media.ServiceType(serviceStr),
		FileID:             fileID,
		Title:              title,
		RelativePath:       relativePath.String,
		TotalScore:         totalScore,
		QualityProfileID:   profileID.Int64,
		QualityProfileName: profileName.String,
		Quality:            quality.String,
		Codec:              codec.String,
		Resolution:         resolution.String,
		SizeBytes:          sizeBytes.Int64,
		MovieID:            movieID.Int64,
		IMDBID:             imdbID.String,
		TMDBID:             tmdbID.Int64,
		SeriesID:           seriesID.Int64,
		SeasonNumber:       int(seasonNumber.Int64),
		EpisodeNumber:      int(episodeNumber.Int64),
		EpisodeTitle:       episodeTitle.String,
		TVDBID:             tvdbID.Int64,
	}
	if formatsJSON.Valid && formatsJSON.String != "" {
		if err := json.Unmarshal([]byte(formatsJSON.String), &file.CustomFormats); err != nil {
			return nil, fmt.Errorf("unmarshal custom formats for %s: %w", uniqueID, err)
		}
	}
	if recorded, err := time.Parse(timeLayout, recordedRaw); err == nil {
		file.RecordedAt = recorded
	}
	return file, nil
}
