package model

import (
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

var snowflakeNode *snowflake.Node

var Models = []interface{}{
	&Activity{}, &ExtractionLog{},
}

func init() {
	var err error
	snowflakeNode, err = snowflake.NewNode(1)
	if err != nil {
		panic(err)
	}
}

// GenerateRunID returns a process-unique id shared by all extraction
// log entries written by one run.
func GenerateRunID() int64 {
	return snowflakeNode.Generate().Int64()
}

func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(Models...)
}
