package generated

import (
	"github.com/jackc/pgx/v5/pgtype"
)

type Transaction struct {
	ID        string             `json:"id"`
	Type      string             `json:"type"`
	Date      pgtype.Date        `json:"date"`
	Concept   string             `json:"concept"`
	Amount    pgtype.Numeric     `json:"amount"`
	CreatedAt pgtype.Timestamptz `json:"created_at"`
	UpdatedAt pgtype.Timestamptz `json:"updated_at"`
}
