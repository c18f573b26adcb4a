// Package redisstore provides a SessionStore that keeps each session as a JSON
// value in Redis. Every write resets the key's TTL so active sessions stay alive.
package redisstore
