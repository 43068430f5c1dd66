package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// QuizPayloadKey returns the cache key for a published quiz's play payload.
func (r *CacheKeyStruct) QuizPayloadKey(slug string) string {
	return fmt.Sprintf("quiz:%s:payload", slug)
}

var CacheKey = NewCacheKeyStruct()
