package config

import (
	"fmt"
)

type CacheKeyStruct struct{}

func NewCacheKeyStruct() *CacheKeyStruct {
	return &CacheKeyStruct{}
}

// EmailOTPKey returns the cache key holding a candidate's email OTP.
func (r *CacheKeyStruct) EmailOTPKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:email_otp", assessmentID)
}

// SessionTokenKey maps an opaque session token to its session ID.
func (r *CacheKeyStruct) SessionTokenKey(token string) string {
	return fmt.Sprintf("session_token:%s", token)
}

// SessionHeartbeatKey returns the cache key for a session's last heartbeat.
func (r *CacheKeyStruct) SessionHeartbeatKey(sessionID string) string {
	return fmt.Sprintf("session:%s:heartbeat", sessionID)
}

// SessionDeadlineKey returns the cache key for a session's deadline unix time.
func (r *CacheKeyStruct) SessionDeadlineKey(sessionID string) string {
	return fmt.Sprintf("session:%s:deadline", sessionID)
}

// EvaluationMarkerKey guards against duplicate evaluation dispatch.
func (r *CacheKeyStruct) EvaluationMarkerKey(assessmentID string) string {
	return fmt.Sprintf("assessment:%s:evaluation_marker", assessmentID)
}

// SetPayloadKey returns the cache key for a delivered set payload
// (questions without answer keys or hidden cases).
func (r *CacheKeyStruct) SetPayloadKey(setID string) string {
	return fmt.Sprintf("set:%s:payload", setID)
}

// ProctorChannel returns the Redis PubSub channel for a job's live
// proctoring feed.
func (r *CacheKeyStruct) ProctorChannel(jobID string) string {
	return fmt.Sprintf("job:%s:proctor", jobID)
}

var CacheKey = NewCacheKeyStruct()
