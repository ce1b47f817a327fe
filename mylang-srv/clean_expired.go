package main

import (
	"log"

	"github.com/tevino/abool/v2"
)

var cleanRunning = abool.NewBool(false)

const kCleanBatch = 2000

func cleanTask() {
	if cleanRunning.IsSet() {
		return
	}
	cleanRunning.Set()
	defer cleanRunning.UnSet()
	cleaned, err := cleanExpired()
	if err != nil {
		log.Println(err)
		return
	}
	if cleaned > 0 {
		log.Printf("cleaned %d expired runs", cleaned)
	}
}

func cleanExpired() (int, error) {
	expired, err := FindExpiredRunsWithLimit(kCleanBatch)
	if err != nil {
		return 0, err
	}
	ids := make([]int64, 0, len(expired))
	for _, entry := range expired {
		ids = append(ids, entry.ID)
	}
	if err := DeleteRuns(ids); err != nil {
		return 0, err
	}
	return len(ids), nil
}
