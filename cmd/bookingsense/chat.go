package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/hrygo/bookingsense/calendar"
	"github.com/hrygo/bookingsense/plugin/ai/agent"
	"github.com/hrygo/bookingsense/plugin/ai/agent/tools"
	"github.com/hrygo/bookingsense/plugin/ai/memory"
	"github.com/hrygo/bookingsense/server/retrieval"
)

var chatVerbose bool

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Talk to the booking assistant on the terminal",
	Run: func(_ *cobra.Command, _ []string) {
		instanceProfile, err := loadProfile()
		if err != nil {
			fmt.Fprintf(os.Stderr, "invalid configuration: %v\n", err)
			os.Exit(1)
		}
		if !instanceProfile.IsAIEnabled() {
			fmt.Fprintln(os.Stderr, "chat needs an AI API key; set BOOKINGSENSE_AI_API_KEY")
			os.Exit(1)
		}

		ctx := context.Background()
		llm, embedder := newAIServices(instanceProfile)
		if llm == nil {
			fmt.Fprintln(os.Stderr, "failed to initialize the AI provider")
			os.Exit(1)
		}

		data, err := os.ReadFile(instanceProfile.CalendarPath)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to read calendar: %v\n", err)
			os.Exit(1)
		}
		cal, err := calendar.FromJSON(data, calendar.WithSearchFloor(instanceProfile.SearchFloorMinutes))
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to load calendar: %v\n", err)
			os.Exit(1)
		}

		// Policy lookup works only when the index has been built beforehand
		// with the index-policies command.
		var policies tools.PolicySearcher
		if st, err := newStore(ctx, instanceProfile); err == nil {
			defer st.Close()
			policies = retrieval.NewPolicyIndex(st, embedder)
		} else {
			fmt.Fprintf(os.Stderr, "store unavailable, policy lookup disabled: %v\n", err)
		}

		mem := memory.NewShortTermMemory(0)
		defer mem.Close()

		assistant, err := agent.NewBookingAssistant(llm, cal, policies, mem, uuid.NewString())
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed to create assistant: %v\n", err)
			os.Exit(1)
		}

		var callback agent.Callback
		if chatVerbose {
			callback = func(event, data string) {
				switch event {
				case agent.EventToolUse:
					fmt.Printf("  [tool] %s\n", data)
				case agent.EventToolResult:
					fmt.Printf("  [result] %s\n", data)
				}
			}
		}

		fmt.Println("Booking assistant ready. Type 'exit' to quit, 'reset' to forget the conversation.")
		scanner := bufio.NewScanner(os.Stdin)
		for {
			fmt.Print("> ")
			if !scanner.Scan() {
				break
			}
			input := strings.TrimSpace(scanner.Text())
			switch input {
			case "":
				continue
			case "exit", "quit":
				return
			case "reset":
				assistant.Reset()
				fmt.Println("Conversation cleared.")
				continue
			}

			answer, err := assistant.ReplyWithCallback(ctx, input, callback)
			if err != nil {
				fmt.Fprintf(os.Stderr, "error: %v\n", err)
				continue
			}
			fmt.Println(answer)
		}
	},
}

func init() {
	chatCmd.Flags().BoolVarP(&chatVerbose, "verbose", "v", false, "print tool calls and results")
}
