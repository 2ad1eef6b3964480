package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	_ "modernc.org/sqlite"
)

// DB wraps a sql.DB with agenda-specific helpers.
type DB struct {
	*sql.DB
	path string
}

// Open creates or opens a SQLite database at the given path.
func Open(path string) (*DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating database directory: %w", err)
	}

	sqlDB, err := sql.Open("sqlite", path+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening database: %w", err)
	}

	if err := sqlDB.Ping(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("pinging database: %w", err)
	}

	d := &DB{DB: sqlDB, path: path}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// OpenMemory creates an in-memory SQLite database (useful for testing).
func OpenMemory() (*DB, error) {
	sqlDB, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("opening in-memory database: %w", err)
	}
	// Every connection to :memory: is a separate database.
	sqlDB.SetMaxOpenConns(1)

	d := &DB{DB: sqlDB, path: ":memory:"}
	if err := d.migrate(); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return d, nil
}

// Path returns the file the database was opened from.
func (d *DB) Path() string { return d.path }

// migrate runs all schema migrations and seeds the default rooms.
func (d *DB) migrate() error {
	if _, err := d.Exec(schema); err != nil {
		return err
	}
	return d.seedRooms()
}

// defaultRooms are inserted when the salas table is empty.
var defaultRooms = []struct {
	Nome, Tipo  string
	Capacidade  int
	Observacoes string
}{
	{"Consultório 1", "Consulta", 1, "Sala principal de atendimento"},
	{"Consultório 2", "Consulta", 1, "Sala secundária"},
	{"Centro Cirúrgico", "Cirurgia", 1, "Equipado para procedimentos complexos"},
	{"Sala de Banho", "Banho e Tosa", 2, "Área úmida"},
}

func (d *DB) seedRooms() error {
	var count int
	if err := d.QueryRow("SELECT COUNT(*) FROM salas").Scan(&count); err != nil {
		return fmt.Errorf("counting rooms: %w", err)
	}
	if count > 0 {
		return nil
	}

	tx, err := d.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	for _, r := range defaultRooms {
		if _, err := tx.Exec(
			"INSERT INTO salas (nome, tipo, capacidade, status, observacoes) VALUES (?, ?, ?, 'ativo', ?)",
			r.Nome, r.Tipo, r.Capacidade, r.Observacoes,
		); err != nil {
			return fmt.Errorf("seeding room %s: %w", r.Nome, err)
		}
	}
	return tx.Commit()
}

// schema contains the full database schema. New tables are added here.
const schema = `
CREATE TABLE IF NOT EXISTS client_storage (
    client_id TEXT NOT NULL,
    key TEXT NOT NULL,
    value TEXT NOT NULL,
    updated_at DATETIME NOT NULL DEFAULT (datetime('now')),
    PRIMARY KEY(client_id, key)
);

CREATE TABLE IF NOT EXISTS usuarios (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT,
    email TEXT UNIQUE NOT NULL,
    perfil TEXT NOT NULL DEFAULT 'usuario',
    status TEXT NOT NULL DEFAULT 'ativo',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS clientes (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    email TEXT,
    telefone TEXT,
    status TEXT DEFAULT 'active',
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_clientes_nome ON clientes(nome);

CREATE TABLE IF NOT EXISTS pets (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    especie TEXT NOT NULL,
    tutor_id INTEGER REFERENCES clientes(id) ON DELETE SET NULL,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS salas (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    nome TEXT NOT NULL,
    tipo TEXT,
    capacidade INTEGER,
    status TEXT NOT NULL DEFAULT 'ativo',
    observacoes TEXT,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE TABLE IF NOT EXISTS agendamentos (
    id INTEGER PRIMARY KEY AUTOINCREMENT,
    cliente TEXT NOT NULL,
    cliente_id INTEGER REFERENCES clientes(id) ON DELETE SET NULL,
    pet TEXT NOT NULL,
    sala TEXT NOT NULL,
    data_agendamento DATE NOT NULL,
    horario TEXT NOT NULL,
    status TEXT NOT NULL DEFAULT 'agendado',
    checkin_realizado INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_agendamentos_data ON agendamentos(data_agendamento);

CREATE TABLE IF NOT EXISTS notificacoes (
    id TEXT PRIMARY KEY,
    titulo TEXT NOT NULL,
    mensagem TEXT NOT NULL,
    tipo TEXT NOT NULL DEFAULT 'info' CHECK(tipo IN ('info','alerta','urgente')),
    lida INTEGER NOT NULL DEFAULT 0,
    created_at DATETIME NOT NULL DEFAULT (datetime('now'))
);

CREATE INDEX IF NOT EXISTS idx_notificacoes_created ON notificacoes(created_at);
`
