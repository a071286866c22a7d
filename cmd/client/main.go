package main

import (
	"flag"
	"log"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/palemoky/uno-arena/internal/logger"
	"github.com/palemoky/uno-arena/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:1789", "服务器地址")
	flag.Parse()

	// TUI 独占终端，日志写到文件
	if err := logger.Init(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	model := ui.NewModel(*serverAddr)

	p := tea.NewProgram(model, tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
