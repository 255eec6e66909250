package main

import (
	"testing"

	"github.com/hammamikhairi/ottopantry/internal/logger"
)

func TestResolveLevel(t *testing.T) {
	tests := []struct {
		name    string
		level   string
		verbose bool
		quiet   bool
		want    logger.Level
		wantErr bool
	}{
		{"default", "normal", false, false, logger.LevelNormal, false},
		{"named verbose", "verbose", false, false, logger.LevelVerbose, false},
		{"named off", "off", false, false, logger.LevelOff, false},
		{"case and spaces", " Debug ", false, false, logger.LevelVerbose, false},
		{"verbose flag", "normal", true, false, logger.LevelVerbose, false},
		{"quiet beats verbose", "verbose", true, true, logger.LevelOff, false},
		{"unknown falls back", "loud", false, false, logger.LevelNormal, true},
		{"unknown with quiet", "loud", false, true, logger.LevelOff, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := resolveLevel(tt.level, tt.verbose, tt.quiet)
			if (err != nil) != tt.wantErr {
				t.Fatalf("err = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("level = %d, want %d", got, tt.want)
			}
		})
	}
}
