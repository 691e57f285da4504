package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"strings"

	"ai-agrichat-be/internal/bootstrap"
	"ai-agrichat-be/internal/config"
	"ai-agrichat-be/internal/constant"
	"ai-agrichat-be/pkg/chat"
	"ai-agrichat-be/pkg/database"

	"github.com/fatih/color"
)

var phaseLabels = map[chat.Phase]string{
	chat.PhaseUnderstanding: "질문을 분석하고 있습니다...",
	chat.PhaseRetrieving:    "전문가들이 자료를 찾고 있습니다...",
	chat.PhaseComposing:     "답변을 정리하고 있습니다...",
}

func main() {
	cfg := config.Load()

	gormDB, err := database.NewGormDB(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	container := bootstrap.NewContainer(gormDB, cfg)

	notifier := chat.NotifierFunc(func(phase chat.Phase) {
		if label, ok := phaseLabels[phase]; ok {
			color.Cyan("  %s", label)
		}
	})

	session := chat.NewSession(container.Engine, notifier)

	color.Green("농업/레시피/영양 챗봇입니다. 무엇이든 물어보세요. (종료하려면 '%s' 입력)", chat.TerminationKeyword)

	scanner := bufio.NewScanner(os.Stdin)
	ctx := context.Background()

	for {
		fmt.Print("\n질문: ")
		if !scanner.Scan() {
			break
		}
		input := strings.TrimSpace(scanner.Text())
		if input == "" {
			continue
		}

		answer, err := session.Submit(ctx, input)
		if err != nil {
			if errors.Is(err, chat.ErrTurnFailed) {
				// internal detail goes to the pipeline log, not the user
				color.Red(constant.TurnFailureReply)
				continue
			}
			color.Red("세션 오류: %v", err)
			break
		}

		fmt.Println()
		color.Yellow("챗봇: %s", answer)

		if session.State() == chat.StateTerminated {
			break
		}
	}
}
