package logger

import (
	"testing"

	"go.uber.org/zap/zapcore"

	"github.com/travian22/aksa-2/config"
)

func TestNewLogger_Formats(t *testing.T) {
	for _, format := range []string{"json", "console"} {
		l, err := NewLogger(&config.LogConfig{Level: "debug", Format: format})
		if err != nil {
			t.Fatalf("format=%s 初始化失败: %v", format, err)
		}
		if !l.Core().Enabled(-1) {
			t.Errorf("format=%s 期望 debug 级别开启", format)
		}
	}
}

func TestNewLogger_InvalidLevel(t *testing.T) {
	if _, err := NewLogger(&config.LogConfig{Level: "loud", Format: "json"}); err == nil {
		t.Error("无效日志级别应返回错误")
	}
}

func TestNewLogger_InfoDisablesDebug(t *testing.T) {
	l, err := NewLogger(&config.LogConfig{Level: "info", Format: "json"})
	if err != nil {
		t.Fatalf("初始化失败: %v", err)
	}
	if l.Core().Enabled(zapcore.DebugLevel) {
		t.Error("info 级别不应输出 debug 日志")
	}
	if !l.Core().Enabled(zapcore.InfoLevel) {
		t.Error("info 级别应输出 info 日志")
	}
}
