// Package logger 终端客户端的文件日志
// TUI 独占 stdout/stderr，所有日志改写到 ~/.uno-arena/client.log
package logger

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"runtime/debug"
	"time"
)

const (
	logDirName  = ".uno-arena"
	logFileName = "client.log"

	// 超过该大小时轮转
	maxLogSize = 10 * 1024 * 1024
)

var (
	logFile *os.File
	logPath string
)

// Init 打开日志文件并接管标准库 log 的输出
func Init() error {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("获取用户目录失败: %w", err)
	}

	logDir := filepath.Join(homeDir, logDirName)
	if err := os.MkdirAll(logDir, 0o755); err != nil {
		return fmt.Errorf("创建日志目录失败: %w", err)
	}

	logPath = filepath.Join(logDir, logFileName)
	logFile, err = openAppend(logPath)
	if err != nil {
		return fmt.Errorf("打开日志文件失败: %w", err)
	}

	if err := rotateIfLarge(logDir); err != nil {
		return err
	}

	log.SetOutput(logFile)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds | log.Lshortfile)

	Info("===== uno-arena 客户端会话开始 =====")
	return nil
}

func openAppend(path string) (*os.File, error) {
	return os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
}

// rotateIfLarge 文件过大时把当前日志挪为带时间戳的备份并重开
func rotateIfLarge(logDir string) error {
	info, err := logFile.Stat()
	if err != nil || info.Size() <= maxLogSize {
		return nil
	}

	_ = logFile.Close()
	backup := filepath.Join(logDir, fmt.Sprintf("%s.%d", logFileName, time.Now().Unix()))
	_ = os.Rename(logPath, backup)

	logFile, err = openAppend(logPath)
	if err != nil {
		return fmt.Errorf("轮转日志文件失败: %w", err)
	}
	return nil
}

// Close 关闭日志文件
func Close() {
	if logFile != nil {
		Info("===== 会话结束 =====")
		_ = logFile.Close()
	}
}

// Info 记录普通日志
func Info(format string, args ...any) {
	log.Printf("[INFO] "+format, args...)
}

// Error 记录错误日志
func Error(format string, args ...any) {
	log.Printf("[ERROR] "+format, args...)
}

// Panic 记录 panic 与调用栈
func Panic(r any) {
	log.Printf("[PANIC] %v\n%s", r, debug.Stack())
}

// Path 当前日志文件路径
func Path() string {
	return logPath
}
