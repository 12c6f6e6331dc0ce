package database

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"

	"github.com/clueloop/codenames/game"
	"github.com/clueloop/codenames/schema"
)

type psqlInfo struct {
	Host     string
	Port     int
	User     string
	Password string
	Dbname   string
	Sslmode  string
}

type ErrorType int

const (
	ConflictError ErrorType = iota
	OpenError
	ConfigError
	MigrateError
	UpdateError
	QueryError
)

type DatabaseError struct {
	ErrorType ErrorType
	msg       error
}

func (e *DatabaseError) Error() string {
	return e.msg.Error()
}

func newError(t ErrorType, format string, err error) *DatabaseError {
	if err == nil {
		return nil
	}
	return &DatabaseError{
		ErrorType: t,
		msg:       fmt.Errorf(format, err),
	}
}

func newMigrateError(err error) *DatabaseError {
	return newError(MigrateError, "database migrate error: %w", err)
}

func newConflictError(err error) *DatabaseError {
	return newError(ConflictError, "database create error: %w", err)
}

func newOpenError(err error) *DatabaseError {
	return newError(OpenError, "database open error: %w", err)
}

func newConfigError(err error) *DatabaseError {
	return newError(ConfigError, "database config error: %w", err)
}

func newUpdateError(err error) *DatabaseError {
	return newError(UpdateError, "database update error: %w", err)
}

func newQueryError(err error) *DatabaseError {
	return newError(QueryError, "database query error: %w", err)
}

func (p psqlInfo) String() string {
	return fmt.Sprintf("host=%s port=%d user=%s "+
		"password=%s dbname=%s sslmode=%s",
		p.Host, p.Port, p.User, p.Password, p.Dbname, p.Sslmode)
}

func getPsqlInfo(filename string) (*psqlInfo, *DatabaseError) {
	jsonFile, err := os.Open(filename)
	if err != nil {
		return nil, newOpenError(err)
	}
	defer jsonFile.Close()
	data, err := io.ReadAll(jsonFile)
	if err != nil {
		return nil, newConfigError(err)
	}
	var info psqlInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, newConfigError(err)
	}
	return &info, nil
}

func Open(filename string) (*gorm.DB, *DatabaseError) {
	info, derr := getPsqlInfo(filename)
	if derr != nil {
		return nil, derr
	}

	db, err := gorm.Open(postgres.Open(info.String()), &gorm.Config{})
	if err != nil {
		return nil, newOpenError(err)
	}
	return db, nil
}

func Automigrate(db *gorm.DB) *DatabaseError {
	if err := db.AutoMigrate(&schema.User{}); err != nil {
		return newMigrateError(fmt.Errorf("schema user, %w", err))
	}
	if err := db.AutoMigrate(&schema.Match{}); err != nil {
		return newMigrateError(fmt.Errorf("schema match, %w", err))
	}
	if err := db.AutoMigrate(&schema.MatchEvent{}); err != nil {
		return newMigrateError(fmt.Errorf("schema match event, %w", err))
	}
	return nil
}

func AddUser(db *gorm.DB, user *schema.User) (uint, *DatabaseError) {
	if _, err := GetUserByEmail(db, user.Email); err == nil {
		return 0, newConflictError(fmt.Errorf("user with that email already exists"))
	}
	if err := db.Create(user).Error; err != nil {
		return 0, newQueryError(err)
	}
	return user.ID, nil
}

func GetUserByID(db *gorm.DB, id uint) (*schema.User, *DatabaseError) {
	var user schema.User
	if err := db.First(&user, id).Error; err != nil {
		return nil, newQueryError(err)
	}
	return &user, nil
}

func GetUserByEmail(db *gorm.DB, email string) (*schema.User, *DatabaseError) {
	var user schema.User
	if err := db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, newQueryError(err)
	}
	return &user, nil
}

func UpdateUser(db *gorm.DB, id uint, password []byte, username string) *DatabaseError {
	return newUpdateError(
		db.Model(&schema.User{}).
			Where("id = ?", id).
			Update("password", password).
			Update("username", username).Error,
	)
}

func UpdateUserUsername(db *gorm.DB, id uint, username string) *DatabaseError {
	return newUpdateError(
		db.Model(&schema.User{}).
			Where("id = ?", id).
			Update("username", username).Error)
}

// AddMatch persists a finished game: the winner plus the ledger's global
// timeline replayed verbatim into event rows, one per ledger entry, in
// insertion order.
func AddMatch(db *gorm.DB, matchID string, hostID uint, state *game.State) *DatabaseError {
	winner, ok := state.Winner()
	if !ok {
		return newConflictError(fmt.Errorf("match %s is not finished", matchID))
	}

	return newQueryError(db.Transaction(func(tx *gorm.DB) error {
		events := state.History().All()
		rows := make([]schema.MatchEvent, 0, len(events))
		for i, e := range events {
			payload, err := json.Marshal(e)
			if err != nil {
				return err
			}
			rows = append(rows, schema.MatchEvent{
				Seq:        i,
				Type:       string(e.Type),
				Team:       string(e.Team),
				Role:       string(e.Role),
				ActorKind:  string(e.Actor.Kind),
				ActorName:  e.Actor.Name,
				ActorModel: e.Actor.Model,
				At:         e.At,
				Payload:    string(payload),
			})
		}

		match := &schema.Match{
			MatchID:      matchID,
			HostID:       hostID,
			BoardSize:    state.BoardSize(),
			WinnerTeam:   string(winner.Team),
			WinnerReason: string(winner.Reason),
			Events:       rows,
		}
		return tx.Create(match).Error
	}))
}

// GetMatch loads a persisted match with its events in timeline order.
func GetMatch(db *gorm.DB, matchID string) (*schema.Match, *DatabaseError) {
	var match schema.Match
	err := db.Preload("Events", func(db *gorm.DB) *gorm.DB {
		return db.Order("seq ASC")
	}).Where("match_id = ?", matchID).First(&match).Error
	if err != nil {
		return nil, newQueryError(err)
	}
	return &match, nil
}
