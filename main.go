package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"tlp/database"
	"tlp/dataset"
	"tlp/trainer"
	"tlp/ui"
)

func main() {
	// Определяем флаги командной строки
	terminalMode := flag.Bool("terminal", false, "Обучить сеть в терминальном режиме")
	historyMode := flag.Bool("history", false, "Показать историю запусков из базы данных")
	dbPath := flag.String("db", "data/tlp.db", "Путь к файлу базы данных")
	port := flag.Int("port", 8080, "Порт веб-сервера")
	statsPath := flag.String("stats", "", "Сохранить историю ошибки в JSON-файл")

	defaults := trainer.DefaultConfig()
	target := flag.String("target", defaults.Target, "Целевая функция: "+strings.Join(dataset.Names(), ", "))
	hidden := flag.Int("hidden", defaults.HiddenUnits, "Число скрытых юнитов вместе с bias")
	eta := flag.Float64("eta", defaults.LearningRate, "Коэффициент обучения")
	schedule := flag.String("schedule", defaults.Schedule, "Расписание: constant, pegasos, decay")
	samples := flag.Int("samples", defaults.Samples, "Количество точек обучающих данных")
	epochs := flag.Int("epochs", defaults.Epochs, "Количество проходов по данным")
	random := flag.Bool("random", false, "Обучение на случайных точках")
	randomSamples := flag.Int("random-samples", defaults.RandomSamples, "Количество случайных точек")
	period := flag.Int("period", 0, "Измерять ошибку каждые N итераций")
	seed := flag.Int64("seed", 0, "PRNG seed")
	flag.Parse()

	db, err := database.NewDatabase(*dbPath)
	if err != nil {
		fmt.Printf("Предупреждение: не удалось подключиться к базе данных: %v\n", err)
	} else {
		defer db.Close()
	}

	cfg := trainer.Config{
		Target:        *target,
		HiddenUnits:   *hidden,
		LearningRate:  *eta,
		Schedule:      *schedule,
		Samples:       *samples,
		Epochs:        *epochs,
		Random:        *random,
		RandomSamples: *randomSamples,
		Min:           defaults.Min,
		Max:           defaults.Max,
		Period:        *period,
		Seed:          *seed,
	}

	switch {
	case *historyMode:
		runHistory(db)
	case *terminalMode:
		if err := runTerminal(cfg, db, *statsPath); err != nil {
			fmt.Printf("Ошибка во время обучения: %v\n", err)
			os.Exit(1)
		}
	default:
		runWeb(db, *port)
	}
}

func runTerminal(cfg trainer.Config, db *database.Database, statsPath string) error {
	fmt.Println("=== Двухслойный перцептрон: регрессия ===")

	tr, err := trainer.NewTrainer(cfg, db)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := tr.Run(ctx, true); err != nil {
		return err
	}

	series := tr.Errors()
	fmt.Printf("\nИзмерений ошибки: %d, минимум %.6f, тренд %+.6f\n", series.Len(), series.Min(), series.Trend())

	fmt.Println("\n     x          y_nn")
	fit := tr.Fit(11)
	for i, x := range fit.X {
		fmt.Printf("%8.3f  %12.6f\n", x, fit.Y[i])
	}

	if statsPath != "" {
		if err := series.Save(statsPath); err != nil {
			return err
		}
		fmt.Printf("\nИстория ошибки сохранена в %s\n", statsPath)
	}
	return nil
}

func runHistory(db *database.Database) {
	if db == nil {
		fmt.Println("База данных недоступна")
		os.Exit(1)
	}

	runs, err := db.ListRuns(20)
	if err != nil {
		fmt.Printf("Ошибка при чтении истории: %v\n", err)
		os.Exit(1)
	}
	total, _ := db.GetTotalRuns()
	fmt.Printf("Всего запусков в базе данных: %d\n\n", total)

	for _, r := range runs {
		mode := "sequential"
		if r.Random {
			mode = "random"
		}
		fmt.Printf("#%d %s M=%d eta=%g %s итераций=%d ошибка=%.6f\n",
			r.ID, r.Target, r.HiddenUnits, r.LearningRate, mode, r.TrainCount, r.FinalError)
	}
}

func runWeb(db *database.Database, port int) {
	fmt.Println("=== Двухслойный перцептрон: регрессия ===")
	fmt.Println("Запуск веб-сервера...")
	fmt.Printf("Откройте браузер на http://localhost:%d\n", port)

	webUI := ui.NewWebUI(db)
	if err := webUI.Start(port); err != nil {
		fmt.Printf("Ошибка веб-сервера: %v\n", err)
		os.Exit(1)
	}
}
