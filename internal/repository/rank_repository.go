package repository

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/troopops/task-tracker/internal/models"
)

type RankRepository struct {
	db *sqlx.DB
}

func NewRankRepository(db *sqlx.DB) *RankRepository {
	return &RankRepository{db: db}
}

func (r *RankRepository) List() ([]models.Rank, error) {
	ranks := []models.Rank{}
	err := r.db.Select(&ranks, "SELECT id, name, order_index FROM ranks ORDER BY order_index ASC")
	if err != nil {
		return nil, fmt.Errorf("list ranks: %w", err)
	}
	return ranks, nil
}

func (r *RankRepository) Create(rank *models.Rank) error {
	if rank.ID == "" {
		rank.ID = uuid.New().String()
	}
	_, err := r.db.Exec(
		"INSERT INTO ranks (id, name, order_index) VALUES (?, ?, ?)",
		rank.ID, rank.Name, rank.OrderIndex,
	)
	if err != nil {
		return fmt.Errorf("create rank: %w", err)
	}
	return nil
}

func (r *RankRepository) Update(rank *models.Rank) error {
	res, err := r.db.Exec(
		"UPDATE ranks SET name = ?, order_index = ? WHERE id = ?",
		rank.Name, rank.OrderIndex, rank.ID,
	)
	if err != nil {
		return fmt.Errorf("update rank: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *RankRepository) Delete(id string) error {
	res, err := r.db.Exec("DELETE FROM ranks WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete rank: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrNotFound
	}
	return nil
}
