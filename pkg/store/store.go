package store

import "fmt"

// Save inserts one extraction record and returns its assigned id.
func Save(db DBExecutor, rec Extraction) (int64, error) {
	res, err := db.Exec(
		`INSERT INTO extractions (input_hash, body, confidence, success, inline_quote_count, labels_json)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.InputHash, rec.Body, rec.Confidence, rec.Success, rec.InlineQuoteCount, rec.LabelsJSON,
	)
	if err != nil {
		return 0, fmt.Errorf("store: insert extraction: %w", err)
	}
	return res.LastInsertId()
}

// ByInputHash returns every extraction recorded for a given input hash,
// most recent first.
func ByInputHash(db DBExecutor, hash string) ([]Extraction, error) {
	rows, err := db.Query(
		`SELECT id, input_hash, body, confidence, success, inline_quote_count, labels_json, created_at
		 FROM extractions WHERE input_hash = ? ORDER BY created_at DESC`,
		hash,
	)
	if err != nil {
		return nil, fmt.Errorf("store: query by input hash: %w", err)
	}
	defer rows.Close()

	var out []Extraction
	for rows.Next() {
		var r Extraction
		if err := rows.Scan(&r.ID, &r.InputHash, &r.Body, &r.Confidence, &r.Success,
			&r.InlineQuoteCount, &r.LabelsJSON, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("store: scan extraction: %w", err)
		}
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

// Count returns the total number of recorded extractions.
func Count(db DBExecutor) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(*) FROM extractions`).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("store: count: %w", err)
	}
	return n, nil
}
