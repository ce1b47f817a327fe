package model

import "gorm.io/plugin/soft_delete"

type PrintEntry struct {
	ID int64 `json:"-" gorm:"primarykey"`
	// position in the output
	Seq   int   `json:"seq"`
	Value int64 `json:"value"`
	// the run that printed it
	PID int64 `json:"-" gorm:"column:pid;index:idx_pid"`
	/* 0 false 1 true */
	Deleted soft_delete.DeletedAt `json:"-" gorm:"softDelete:flag;default:0"`
}

func (PrintEntry) TableName() string {
	return "print_entry"
}
