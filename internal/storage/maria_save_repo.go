package storage

import (
	"context"
	"database/sql"
	"fmt"
	"regexp"

	_ "github.com/go-sql-driver/mysql"

	"github.com/annel0/arpg-engine/internal/save"
)

var tableNamePattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]{0,63}$`)

// MariaSaveRepository реализует SaveRepository для базы данных MariaDB/MySQL.
// Использует таблицу save_slots (имя настраивается) для хранения слотов.
type MariaSaveRepository struct {
	db    *sql.DB
	codec *Codec
	table string
}

// NewMariaSaveRepository создает новый репозиторий сохранений для MariaDB.
// Автоматически создает таблицу, если она не существует.
//
// Параметры:
//
//	dsn - строка подключения к базе данных (user:pass@tcp(host:port)/dbname)
//	table - имя таблицы, по умолчанию save_slots
//
// Возвращает:
//
//	*MariaSaveRepository - экземпляр репозитория
//	error - ошибка при подключении или создании таблицы
func NewMariaSaveRepository(dsn, table string, codec *Codec) (*MariaSaveRepository, error) {
	if table == "" {
		table = "save_slots"
	}
	if !tableNamePattern.MatchString(table) {
		return nil, fmt.Errorf("недопустимое имя таблицы %q", table)
	}

	db, err := sql.Open("mysql", dsn)
	if err != nil {
		return nil, fmt.Errorf("не удалось подключиться к MariaDB: %w", err)
	}

	// Проверяем соединение
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось проверить соединение с MariaDB: %w", err)
	}

	repo := &MariaSaveRepository{db: db, codec: codec, table: table}

	if err := repo.createTable(); err != nil {
		db.Close()
		return nil, fmt.Errorf("не удалось создать таблицу: %w", err)
	}

	return repo, nil
}

// createTable создает таблицу слотов, если она не существует.
func (r *MariaSaveRepository) createTable() error {
	query := `
		CREATE TABLE IF NOT EXISTS ` + r.table + ` (
			slot       VARCHAR(128) PRIMARY KEY,
			level      INT          NOT NULL,
			money      INT          NOT NULL,
			data       LONGBLOB     NOT NULL,
			updated_at TIMESTAMP    DEFAULT CURRENT_TIMESTAMP
			           ON UPDATE    CURRENT_TIMESTAMP,
			INDEX idx_updated_at (updated_at)
		) ENGINE=InnoDB
	`

	if _, err := r.db.Exec(query); err != nil {
		return fmt.Errorf("ошибка создания таблицы %s: %w", r.table, err)
	}
	return nil
}

// Save сохраняет слот.
// Использует INSERT ... ON DUPLICATE KEY UPDATE для обновления существующих записей.
func (r *MariaSaveRepository) Save(ctx context.Context, slot string, d save.SaveData) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	blob, err := r.codec.Encode(d)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO ` + r.table + ` (slot, level, money, data)
		VALUES (?, ?, ?, ?)
		ON DUPLICATE KEY UPDATE
			level = VALUES(level),
			money = VALUES(money),
			data = VALUES(data),
			updated_at = CURRENT_TIMESTAMP
	`

	if _, err := r.db.ExecContext(ctx, query, slot, d.Level, d.Money, blob); err != nil {
		return fmt.Errorf("ошибка сохранения слота %s: %w", slot, err)
	}
	return nil
}

// Load загружает слот из базы данных.
func (r *MariaSaveRepository) Load(ctx context.Context, slot string) (save.SaveData, bool, error) {
	if err := ValidateSlot(slot); err != nil {
		return save.SaveData{}, false, err
	}

	var blob []byte
	err := r.db.QueryRowContext(ctx, `SELECT data FROM `+r.table+` WHERE slot = ?`, slot).Scan(&blob)
	if err == sql.ErrNoRows {
		return save.SaveData{}, false, nil
	}
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("ошибка загрузки слота %s: %w", slot, err)
	}

	d, err := r.codec.Decode(blob)
	if err != nil {
		return save.SaveData{}, false, fmt.Errorf("слот %s: %w", slot, err)
	}
	return d, true, nil
}

// Delete удаляет слот. Отсутствие строки ошибкой не считается.
func (r *MariaSaveRepository) Delete(ctx context.Context, slot string) error {
	if err := ValidateSlot(slot); err != nil {
		return err
	}
	if _, err := r.db.ExecContext(ctx, `DELETE FROM `+r.table+` WHERE slot = ?`, slot); err != nil {
		return fmt.Errorf("ошибка удаления слота %s: %w", slot, err)
	}
	return nil
}

// List возвращает сведения о слотах в порядке имени
func (r *MariaSaveRepository) List(ctx context.Context) ([]SlotInfo, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT slot, data FROM `+r.table+` ORDER BY slot`)
	if err != nil {
		return nil, fmt.Errorf("ошибка чтения списка слотов: %w", err)
	}
	defer rows.Close()

	infos := []SlotInfo{}
	for rows.Next() {
		var (
			slot string
			blob []byte
		)
		if err := rows.Scan(&slot, &blob); err != nil {
			return nil, err
		}
		d, err := r.codec.Decode(blob)
		if err != nil {
			return nil, fmt.Errorf("слот %s: %w", slot, err)
		}
		infos = append(infos, infoOf(slot, d))
	}
	return infos, rows.Err()
}

// dropTable удаляет таблицу (для тестов)
func (r *MariaSaveRepository) dropTable(ctx context.Context) error {
	_, err := r.db.ExecContext(ctx, `DROP TABLE IF EXISTS `+r.table)
	return err
}

// Close закрывает соединение с базой данных.
func (r *MariaSaveRepository) Close() error {
	if r.db != nil {
		return r.db.Close()
	}
	return nil
}
