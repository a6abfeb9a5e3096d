package main

import (
	"flag"
	"fmt"
	"log"

	"lastcard/internal/logger"
	"lastcard/internal/sound"
	"lastcard/internal/ui"
)

func main() {
	serverAddr := flag.String("server", "localhost:2180", "服务器地址")
	mute := flag.Bool("mute", false, "关闭音效")
	flag.Parse()

	// TUI 占据终端，日志写到文件里
	if err := logger.Init(); err != nil {
		log.Printf("初始化日志失败: %v", err)
	}
	defer logger.Close()

	defer func() {
		if r := recover(); r != nil {
			logger.LogPanic(r)
			panic(r)
		}
	}()

	var sounds *sound.Manager
	if !*mute {
		sounds = sound.NewManager()
		if err := sounds.Init(); err != nil {
			logger.LogError("初始化音效失败: %v", err)
			sounds = nil
		}
		defer sounds.Close()
	}

	serverURL := fmt.Sprintf("ws://%s/ws", *serverAddr)
	if err := ui.Run(serverURL, sounds); err != nil {
		log.Fatalf("启动客户端时出错: %v", err)
	}
}
