package handlers

import (
	"fmt"
	"os"
	"runtime"
	"time"

	"sentinel-bot/bot"

	"github.com/bwmarrin/discordgo"
	"github.com/shirou/gopsutil/v3/cpu"
	"github.com/shirou/gopsutil/v3/host"
	"github.com/shirou/gopsutil/v3/mem"
)

// SystemInfoHandler answers /system-info with host and process statistics.
func SystemInfoHandler(s *discordgo.Session, i *discordgo.InteractionCreate, b *bot.Bot) {
	cpuCount, _ := cpu.Counts(true)
	cpuPercent, _ := cpu.Percent(0, false)
	cpuUsage := 0.0
	if len(cpuPercent) > 0 {
		cpuUsage = cpuPercent[0]
	}

	vm, _ := mem.VirtualMemory()
	hostInfo, _ := host.Info()

	var dbSize int64
	if info, err := os.Stat(b.GetConfig().DBPath); err == nil {
		dbSize = info.Size() / 1024 / 1024
	}

	embed := &discordgo.MessageEmbed{
		Title: "System Info",
		Color: 0x5865F2, // Discord Blurple
		Fields: []*discordgo.MessageEmbedField{
			{Name: "💻 OS", Value: fmt.Sprintf("%s %s", hostInfo.Platform, hostInfo.PlatformVersion), Inline: true},
			{Name: "🔧 Kernel", Value: hostInfo.KernelVersion, Inline: true},
			{Name: "🐹 Go version", Value: runtime.Version(), Inline: true},
			{Name: "🔼 CPUs", Value: fmt.Sprintf("%d", cpuCount), Inline: true},
			{Name: "🔥 CPU usage", Value: fmt.Sprintf("%.1f%%", cpuUsage), Inline: true},
			{Name: "🧠 Memory", Value: fmt.Sprintf("%.1f%% (%d MB / %d MB)", vm.UsedPercent, vm.Used/1024/1024, vm.Total/1024/1024), Inline: true},
			{Name: "🗃️ Database size", Value: fmt.Sprintf("%d MB", dbSize), Inline: true},
			{Name: "⏱️ WebSocket latency", Value: s.HeartbeatLatency().String(), Inline: true},
			{Name: "🚀 Goroutines", Value: fmt.Sprintf("%d", runtime.NumGoroutine()), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("System monitor・%s", time.Now().Format("15:04")),
		},
	}

	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds: []*discordgo.MessageEmbed{embed},
		},
	})
}
