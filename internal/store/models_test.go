package store

import "testing"

func TestConditionsRecordTableName(t *testing.T) {
	if got := (ConditionsRecord{}).TableName(); got != "conditions" {
		t.Errorf("TableName() = %q, want conditions", got)
	}
}

func TestUserTableName(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Errorf("TableName() = %q, want users", got)
	}
}

func TestDeviceTableName(t *testing.T) {
	if got := (Device{}).TableName(); got != "devices" {
		t.Errorf("TableName() = %q, want devices", got)
	}
}
