package waveform

import (
	"fmt"

	_ "github.com/go-sql-driver/mysql"
	sqlx "github.com/jmoiron/sqlx" //make alias name the package to sqlx
	_ "modernc.org/sqlite"
)

// PedestalSummary is the pedestal of one channel in one event.
type PedestalSummary struct {
	Run     int     `db:"Run"`
	Event   int     `db:"Event"`
	Channel int     `db:"Channel"`
	Median  float64 `db:"Median"`
	Frugal  float64 `db:"Frugal"`
	RMS     float64 `db:"RMS"`
}

const pedestalSchema = `CREATE TABLE IF NOT EXISTS Pedestals (
	Run INTEGER NOT NULL,
	Event INTEGER NOT NULL,
	Channel INTEGER NOT NULL,
	Median DOUBLE NOT NULL,
	Frugal DOUBLE NOT NULL,
	RMS DOUBLE NOT NULL,
	PRIMARY KEY (Run, Event, Channel)
)`

func ConnectToDatabase(user string, pass string, host string, dbname string) (*sqlx.DB, error) {
	port := "3306"
	dbURI := fmt.Sprintf("%s:%s@(%s:%s)/%s?parseTime=true", user, pass, host, port, dbname)
	db, err := sqlx.Connect("mysql", dbURI)
	return db, err
}

func OpenSQLite(path string) (*sqlx.DB, error) {
	db, err := sqlx.Connect("sqlite", path)
	if err != nil {
		return nil, err
	}
	// A single connection keeps ":memory:" databases alive between statements
	db.SetMaxOpenConns(1)
	return db, nil
}

// OpenDatabase connects with the driver named in the configuration.
func OpenDatabase(config Configuration) (*sqlx.DB, error) {
	switch config.DBDriver {
	case "mysql":
		return ConnectToDatabase(config.User, config.Passwd, config.Host, config.DBName)
	case "sqlite":
		return OpenSQLite(config.DB)
	}
	return nil, fmt.Errorf("unknown database driver %q", config.DBDriver)
}

func CreateSchema(db *sqlx.DB) error {
	if _, err := db.Exec(pedestalSchema); err != nil {
		return fmt.Errorf("error creating pedestal table: %w", err)
	}
	return nil
}

// InsertPedestals stores the summaries in one transaction, replacing rows
// with the same run, event and channel.
func InsertPedestals(db *sqlx.DB, peds []PedestalSummary) error {
	if len(peds) == 0 {
		return nil
	}
	tx, err := db.Beginx()
	if err != nil {
		return fmt.Errorf("error starting transaction: %w", err)
	}
	query := "REPLACE INTO Pedestals (Run, Event, Channel, Median, Frugal, RMS) VALUES (:Run, :Event, :Channel, :Median, :Frugal, :RMS)"
	for _, ped := range peds {
		if _, err := tx.NamedExec(query, ped); err != nil {
			tx.Rollback()
			return fmt.Errorf("error inserting pedestal of channel %d: %w", ped.Channel, err)
		}
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing pedestals: %w", err)
	}
	logInfo(1, fmt.Sprintf("Stored %d pedestals", len(peds)), "database")
	return nil
}

func GetPedestals(db *sqlx.DB, runNumber int) ([]PedestalSummary, error) {
	query := db.Rebind("SELECT Run, Event, Channel, Median, Frugal, RMS FROM Pedestals WHERE Run = ? ORDER BY Event, Channel")
	if configuration.Verbosity > 2 {
		logger.Info(fmt.Sprintf("Query: %s", query), "database")
	}

	rows, err := db.Queryx(query, runNumber)
	if err != nil {
		return nil, fmt.Errorf("error querying database: %w", err)
	}
	defer rows.Close()

	var peds []PedestalSummary
	for rows.Next() {
		result := PedestalSummary{}
		if err := rows.StructScan(&result); err != nil {
			return nil, fmt.Errorf("error scanning DB row: %w", err)
		}
		peds = append(peds, result)
	}
	return peds, rows.Err()
}
