package session

import (
	"database/sql"
	"errors"
	"time"

	"photosift/internal/inventory"
)

const itemColumns = "id, session_id, relative_path, absolute_path, identity_key, kind, size_bytes, mod_time, status, error_message, trash_path, created_at, updated_at"

func scanItem(scanner interface{ Scan(dest ...any) error }) (*Item, error) {
	var (
		id           int64
		sessionID    string
		relativePath string
		absolutePath string
		identityKey  string
		kindStr      string
		sizeBytes    int64
		modTimeRaw   sql.NullString
		statusStr    string
		errorMessage sql.NullString
		trashPath    sql.NullString
		createdRaw   sql.NullString
		updatedRaw   sql.NullString
	)

	if err := scanner.Scan(
		&id,
		&sessionID,
		&relativePath,
		&absolutePath,
		&identityKey,
		&kindStr,
		&sizeBytes,
		&modTimeRaw,
		&statusStr,
		&errorMessage,
		&trashPath,
		&createdRaw,
		&updatedRaw,
	); err != nil {
		return nil, err
	}

	item := &Item{
		ID:           id,
		SessionID:    sessionID,
		RelativePath: relativePath,
		AbsolutePath: absolutePath,
		IdentityKey:  identityKey,
		Kind:         inventory.Kind(kindStr),
		SizeBytes:    sizeBytes,
		Status:       Status(statusStr),
		ErrorMessage: errorMessage.String,
		TrashPath:    trashPath.String,
	}
	if modTimeRaw.Valid {
		if modTime, err := parseTimeString(modTimeRaw.String); err == nil {
			item.ModTime = modTime
		}
	}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		item.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		item.UpdatedAt = updated
	}
	return item, nil
}

func scanRecord(scanner interface{ Scan(dest ...any) error }) (*Record, error) {
	var (
		id         string
		backupRoot string
		createdRaw sql.NullString
		updatedRaw sql.NullString
	)
	if err := scanner.Scan(&id, &backupRoot, &createdRaw, &updatedRaw); err != nil {
		return nil, err
	}
	record := &Record{ID: id, BackupRoot: backupRoot}
	if created, err := parseTimeString(createdRaw.String); err == nil {
		record.CreatedAt = created
	}
	if updated, err := parseTimeString(updatedRaw.String); err == nil {
		record.UpdatedAt = updated
	}
	return record, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}

func nullableTime(value time.Time) any {
	if value.IsZero() {
		return nil
	}
	return value.UTC().Format(time.RFC3339Nano)
}

func parseTimeString(value string) (time.Time, error) {
	if value == "" {
		return time.Time{}, errors.New("empty")
	}
	if t, err := time.Parse(time.RFC3339Nano, value); err == nil {
		return t, nil
	}
	return time.Parse("2006-01-02 15:04:05", value)
}

func makePlaceholders(count int) string {
	if count <= 0 {
		return ""
	}
	placeholders := make([]byte, 0, count*2)
	for i := 0; i < count; i++ {
		if i > 0 {
			placeholders = append(placeholders, ',')
		}
		placeholders = append(placeholders, '?')
	}
	return string(placeholders)
}
