package main

import (
	"errors"
	"os"
	"time"

	"gorm.io/gorm"

	"mylang-go/model"
)

func SaveRunEntry(entry *model.RunEntry) error {
	return DB.Transaction(func(tx *gorm.DB) error {
		prints := entry.Prints
		entry.Prints = nil
		defer func() { entry.Prints = prints }()
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		if len(prints) == 0 {
			return nil
		}
		for i := range prints {
			prints[i].PID = entry.ID
			prints[i].Seq = i
		}
		return tx.Create(&prints).Error
	})
}

// FindRunByDigest returns the newest live entry for digest, with its printed
// values in order, or os.ErrNotExist.
func FindRunByDigest(digest string) (*model.RunEntry, error) {
	var entry model.RunEntry
	err := DB.Model(&model.RunEntry{}).
		Preload("Prints", func(db *gorm.DB) *gorm.DB { return db.Order("seq") }).
		Where("`digest` = ?", digest).Order("id desc").
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, os.ErrNotExist
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// UpdateRunAccess marks the run as used now. A positive expire also replaces
// its expiry.
func UpdateRunAccess(id int64, expire time.Duration) error {
	updates := map[string]interface{}{"last_access": time.Now().Unix()}
	if expire > 0 {
		updates["expired_duration"] = int64(expire / time.Second)
	}
	return DB.Model(&model.RunEntry{}).Where("`id` = ?", id).Updates(updates).Error
}

func FindExpiredRunsWithLimit(limit int) ([]*model.RunEntry, error) {
	var expired []*model.RunEntry
	now := time.Now().Unix()
	if err := DB.Model(&model.RunEntry{}).Where("`last_access` + `expired_duration` < ?", now).
		Limit(limit).Find(&expired).Error; err != nil {
		return nil, err
	}
	return expired, nil
}

// DeleteRuns flags the runs and their printed values as deleted.
func DeleteRuns(ids []int64) error {
	if len(ids) == 0 {
		return nil
	}
	return DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("`pid` IN ?", ids).Delete(&model.PrintEntry{}).Error; err != nil {
			return err
		}
		return tx.Delete(&model.RunEntry{}, ids).Error
	})
}
