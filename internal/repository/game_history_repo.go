package repository

import (
	"context"
	"encoding/json"
	"time"

	"kol_arena/internal/domain"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// GameHistoryRepository persists per-player game records. Optional
// collaborator: the session core never reads it back.
type GameHistoryRepository struct {
	db *pgxpool.Pool
}

func NewGameHistoryRepository(db *pgxpool.Pool) *GameHistoryRepository {
	return &GameHistoryRepository{db: db}
}

// Record сохраняет запись игры в историю
func (r *GameHistoryRepository) Record(ctx context.Context, gh *domain.GameHistory) error {
	detailsJSON, err := json.Marshal(gh.Details)
	if err != nil {
		detailsJSON = []byte("{}")
	}

	err = r.db.QueryRow(ctx,
		`INSERT INTO game_history
			(wallet, game_type, room_id, result, bet_amount, win_amount, currency, escrow_tx_id, details)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING id, created_at`,
		gh.Wallet,
		gh.GameType,
		gh.RoomID,
		gh.Result,
		gh.BetAmount,
		gh.WinAmount,
		gh.Currency,
		gh.EscrowTxID,
		detailsJSON,
	).Scan(&gh.ID, &gh.CreatedAt)

	return err
}

// GetByWallet возвращает историю игр кошелька
func (r *GameHistoryRepository) GetByWallet(ctx context.Context, wallet string, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, wallet, game_type, room_id, result,
				bet_amount, win_amount, currency, escrow_tx_id, details, created_at
		 FROM game_history
		 WHERE wallet = $1
		 ORDER BY created_at DESC
		 LIMIT $2`,
		wallet, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// GetByWalletAndType возвращает историю игр определённого типа
func (r *GameHistoryRepository) GetByWalletAndType(ctx context.Context, wallet string, gameType domain.GameType, limit int) ([]*domain.GameHistory, error) {
	if limit <= 0 {
		limit = 100
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, wallet, game_type, room_id, result,
				bet_amount, win_amount, currency, escrow_tx_id, details, created_at
		 FROM game_history
		 WHERE wallet = $1 AND game_type = $2
		 ORDER BY created_at DESC
		 LIMIT $3`,
		wallet, gameType, limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return scanHistoryRows(rows)
}

// WalletStats - статистика кошелька
type WalletStats struct {
	Wallet     string `json:"wallet"`
	TotalGames int    `json:"total_games"`
	Wins       int    `json:"wins"`
	Losses     int    `json:"losses"`
	TotalWon   int64  `json:"total_won"`
	TotalBet   int64  `json:"total_bet"`
}

// GetWalletStats возвращает статистику кошелька за период
func (r *GameHistoryRepository) GetWalletStats(ctx context.Context, wallet string, since time.Time) (*WalletStats, error) {
	stats := &WalletStats{Wallet: wallet}

	err := r.db.QueryRow(ctx,
		`SELECT
			COUNT(*) as total_games,
			COUNT(*) FILTER (WHERE result = 'win') as wins,
			COUNT(*) FILTER (WHERE result = 'lose') as losses,
			COALESCE(SUM(win_amount), 0) as total_won,
			COALESCE(SUM(bet_amount), 0) as total_bet
		 FROM game_history
		 WHERE wallet = $1 AND created_at >= $2`,
		wallet, since,
	).Scan(&stats.TotalGames, &stats.Wins, &stats.Losses, &stats.TotalWon, &stats.TotalBet)

	if err != nil {
		return nil, err
	}

	return stats, nil
}

// TopWallet - запись в топе
type TopWallet struct {
	Wallet string `json:"wallet"`
	Wins   int    `json:"wins"`
	Games  int    `json:"games"`
	Won    int64  `json:"won"`
}

// GetTopWallets возвращает топ кошельков за последний месяц
func (r *GameHistoryRepository) GetTopWallets(ctx context.Context, limit int) ([]*TopWallet, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT
			wallet,
			COUNT(*) FILTER (WHERE result = 'win') as wins,
			COUNT(*) as games,
			COALESCE(SUM(win_amount), 0) as won
		 FROM game_history
		 WHERE created_at >= now() - interval '1 month'
		 GROUP BY wallet
		 ORDER BY won DESC, wins DESC, games DESC
		 LIMIT $1`,
		limit,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var result []*TopWallet
	for rows.Next() {
		var tw TopWallet
		if err := rows.Scan(&tw.Wallet, &tw.Wins, &tw.Games, &tw.Won); err != nil {
			return nil, err
		}
		result = append(result, &tw)
	}

	return result, nil
}

func scanHistoryRows(rows pgx.Rows) ([]*domain.GameHistory, error) {
	var result []*domain.GameHistory

	for rows.Next() {
		var (
			gh          domain.GameHistory
			detailsJSON []byte
		)

		if err := rows.Scan(
			&gh.ID, &gh.Wallet, &gh.GameType, &gh.RoomID, &gh.Result,
			&gh.BetAmount, &gh.WinAmount, &gh.Currency, &gh.EscrowTxID,
			&detailsJSON, &gh.CreatedAt,
		); err != nil {
			return nil, err
		}

		if len(detailsJSON) > 0 {
			_ = json.Unmarshal(detailsJSON, &gh.Details)
		}

		result = append(result, &gh)
	}

	return result, rows.Err()
}
