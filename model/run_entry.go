package model

import "gorm.io/plugin/soft_delete"

type RunEntry struct {
	ID int64 `json:"id" gorm:"primarykey"`
	// blake3 of the source text
	Digest string `json:"digest" gorm:"index:idx_digest"`
	// number of statements, 0 when the source did not parse
	Statements int `json:"statements"`
	// LexicalError, SyntaxError, RuntimeError or empty
	ErrorKind    string `json:"error_kind"`
	ErrorMessage string `json:"error_message"`
	ErrorPos     int    `json:"error_pos"`
	// printed values -- foreign key PID
	Prints []*PrintEntry `json:"prints" gorm:"foreignKey:PID"`
	// run time in microseconds
	ElapsedMicros int64 `json:"elapsed_micros"`
	CreatedAt     int64 `json:"created_at"`
	LastAccess    int64 `json:"last_access" gorm:"index:idx_last_access"`
	// seconds after LastAccess the entry expires
	ExpiredDuration int64 `json:"expired_duration"`
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `json:"-" gorm:"softDelete:flag;default:0"`
}

func (RunEntry) TableName() string {
	return "run_entry"
}

// Values returns the printed values in output order.
func (this *RunEntry) Values() []int64 {
	values := make([]int64, 0, len(this.Prints))
	for _, p := range this.Prints {
		values = append(values, p.Value)
	}
	return values
}
