package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/bytedance/sonic"

	"github.com/zoeyai/itemscan/internal/logger"
	"github.com/zoeyai/itemscan/pkg/capture"
	"github.com/zoeyai/itemscan/pkg/config"
	"github.com/zoeyai/itemscan/pkg/grid"
	"github.com/zoeyai/itemscan/pkg/scan"
	"github.com/zoeyai/itemscan/pkg/vision"
	"github.com/zoeyai/itemscan/pkg/vision/raster"
)

// 版本信息 (可通过 ldflags 注入)
var (
	Version   = "1.0.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

func main() {
	// 命令行参数
	var (
		comparePath  = flag.String("compare", "", "待比较的图像")
		withPath     = flag.String("with", "", "与 -compare 比较的图像")
		scanPath     = flag.String("scan", "", "扫描截图文件")
		templateList = flag.String("templates", "", "模板文件列表, 以逗号分隔")
		liveCapture  = flag.Bool("capture", false, "扫描实时屏幕")
		watch        = flag.Duration("watch", 0, "与 -capture 一起使用, 按间隔持续扫描")
		outPath      = flag.String("out", "", "与 -capture 一起使用, 保存最后一次截图")
		gridSize     = flag.String("grid", "", "打印指定分辨率的格子区域 (例: 1920x1080)")
		configPath   = flag.String("config", "", "配置文件路径")
		threshold    = flag.Float64("threshold", 0, "匹配阈值 (覆盖配置文件)")
		saveConfig   = flag.Bool("save", false, "保存配置到本地")
		verbose      = flag.Bool("verbose", false, "在控制台输出日志")
		showVersion  = flag.Bool("version", false, "显示版本信息")
		showHelp     = flag.Bool("help", false, "显示帮助信息")
	)

	flag.Parse()

	// 显示版本
	if *showVersion {
		printVersion()
		return
	}

	// 显示帮助
	if *showHelp {
		printHelp()
		return
	}

	manager := config.GetDefaultManager()
	if *configPath != "" {
		manager = config.NewManagerWithFile(*configPath)
	}

	// 加载配置
	cfg, err := manager.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "[WARN] 加载配置失败: %v\n", err)
	}

	// 命令行参数优先级高于配置文件
	if *threshold > 0 {
		cfg.Threshold = *threshold
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg, *verbose)
	defer logger.Default().Close()

	// 保存配置
	if *saveConfig {
		if err := manager.Save(cfg); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] 保存配置失败: %v\n", err)
		} else {
			fmt.Fprintf(os.Stderr, "[INFO] 配置已保存到 %s\n", manager.GetConfigFile())
		}
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	switch {
	case *comparePath != "":
		err = runCompare(cfg, *comparePath, *withPath)
	case *gridSize != "":
		err = runGrid(cfg, *gridSize)
	case *scanPath != "":
		err = runScanFile(ctx, cfg, *scanPath, *templateList)
	case *liveCapture:
		err = runCapture(ctx, cfg, *templateList, *watch, *outPath)
	default:
		if !*saveConfig {
			printHelp()
		}
		return
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "[ERROR] %v\n", err)
		os.Exit(1)
	}
}

// setupLogger 按配置初始化日志
func setupLogger(cfg *config.ScanConfig, verbose bool) {
	l := logger.Default()
	l.SetLevel(logger.ParseLevel(cfg.LogLevel))
	l.SetConsole(verbose)
	if cfg.LogFile != "" {
		if err := l.SetFile(true, cfg.LogFile); err != nil {
			fmt.Fprintf(os.Stderr, "[WARN] %v\n", err)
		}
	}
}

// runCompare 比较两张图像并输出各方法分数
func runCompare(cfg *config.ScanConfig, a, b string) error {
	if b == "" {
		return fmt.Errorf("缺少 -with 参数")
	}

	result, err := vision.Compare(a, b,
		vision.WithSampleSize(cfg.SampleSize),
		vision.WithPreprocess(cfg.Preprocess),
		vision.WithWeights(cfg.Weights),
	)
	if err != nil {
		return err
	}
	return printJSON(result)
}

// runGrid 输出指定分辨率下的格子区域
func runGrid(cfg *config.ScanConfig, size string) error {
	w, h, err := parseSize(size)
	if err != nil {
		return err
	}
	regions := grid.DetectGridPositions(w, h, cfg.Layout)
	if regions == nil {
		return fmt.Errorf("无法计算格子区域: %s", size)
	}
	return printJSON(regions)
}

// runScanFile 扫描截图文件
func runScanFile(ctx context.Context, cfg *config.ScanConfig, path, templateList string) error {
	scanner, err := newScanner(cfg, templateList)
	if err != nil {
		return err
	}

	screen, err := raster.Load(path)
	if err != nil {
		return err
	}

	detections, err := scanner.Scan(ctx, screen)
	if err != nil {
		return err
	}
	return printJSON(detections)
}

// runCapture 扫描实时屏幕, interval > 0 时持续扫描直到收到退出信号
func runCapture(ctx context.Context, cfg *config.ScanConfig, templateList string, interval time.Duration, outPath string) error {
	if !capture.HasScreenRecordingPermission() {
		fmt.Fprintln(os.Stderr, "[WARN] "+capture.PermissionInstructions())
		capture.OpenScreenRecordingSettings()
		return fmt.Errorf("缺少屏幕录制权限")
	}

	scanner, err := newScanner(cfg, templateList)
	if err != nil {
		return err
	}

	gate := scan.NewFrameGate(scan.MaxHashDistance)
	for {
		screen, err := capture.CaptureScreen()
		if err != nil {
			return err
		}

		if gate.Changed(screen) {
			detections, err := scanner.Scan(ctx, screen)
			if err != nil {
				return err
			}
			if err := printJSON(detections); err != nil {
				return err
			}
			if outPath != "" {
				if err := raster.Save(outPath, screen); err != nil {
					return err
				}
			}
		}

		if interval <= 0 {
			return nil
		}
		select {
		case <-ctx.Done():
			logger.Info("已退出")
			return nil
		case <-time.After(interval):
		}
	}
}

// newScanner 加载模板并创建扫描器
func newScanner(cfg *config.ScanConfig, templateList string) (*scan.Scanner, error) {
	if templateList == "" {
		return nil, fmt.Errorf("缺少 -templates 参数")
	}

	var templates []scan.Template
	for _, path := range strings.Split(templateList, ",") {
		path = strings.TrimSpace(path)
		if path == "" {
			continue
		}
		buf, err := raster.Load(path)
		if err != nil {
			return nil, err
		}
		id := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
		templates = append(templates, scan.Template{ID: id, Name: id, Image: buf})
	}
	logger.Info("已加载 %d 个模板", len(templates))

	return scan.NewScanner(templates,
		scan.WithThreshold(cfg.Threshold),
		scan.WithSampleSize(cfg.SampleSize),
		scan.WithPreprocess(cfg.Preprocess),
		scan.WithContrastFactor(cfg.ContrastFactor),
		scan.WithWorkers(cfg.Workers),
		scan.WithLayout(cfg.Layout),
		scan.WithWeights(cfg.Weights),
	), nil
}

// parseSize 解析 WxH 格式的分辨率
func parseSize(s string) (int, int, error) {
	parts := strings.Split(strings.ToLower(s), "x")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("无效的分辨率: %s (期望格式: 1920x1080)", s)
	}
	w, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的宽度: %s", parts[0])
	}
	h, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, 0, fmt.Errorf("无效的高度: %s", parts[1])
	}
	return w, h, nil
}

func printJSON(v interface{}) error {
	data, err := sonic.ConfigStd.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("序列化结果失败: %w", err)
	}
	fmt.Println(string(data))
	return nil
}

// printVersion 打印版本信息
func printVersion() {
	fmt.Printf("ItemScan v%s\n", Version)
	fmt.Printf("Build Time: %s\n", BuildTime)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}

// printHelp 打印帮助信息
func printHelp() {
	fmt.Println("ItemScan - 物品栏图像识别工具")
	fmt.Println()
	fmt.Println("用法:")
	fmt.Println("  itemscan [选项]")
	fmt.Println()
	fmt.Println("选项:")
	fmt.Println("  -compare string     待比较的图像")
	fmt.Println("  -with string        与 -compare 比较的图像")
	fmt.Println("  -scan string        扫描截图文件")
	fmt.Println("  -templates string   模板文件列表, 以逗号分隔")
	fmt.Println("  -capture            扫描实时屏幕")
	fmt.Println("  -watch duration     与 -capture 一起使用, 按间隔持续扫描")
	fmt.Println("  -out string         与 -capture 一起使用, 保存最后一次截图")
	fmt.Println("  -grid string        打印指定分辨率的格子区域 (例: 1920x1080)")
	fmt.Println("  -config string      配置文件路径")
	fmt.Println("  -threshold float    匹配阈值 (覆盖配置文件)")
	fmt.Println("  -save               保存配置到本地")
	fmt.Println("  -verbose            在控制台输出日志")
	fmt.Println("  -version            显示版本信息")
	fmt.Println("  -help               显示帮助信息")
	fmt.Println()
	fmt.Println("示例:")
	fmt.Println("  # 比较两张图像")
	fmt.Println("  itemscan -compare slot.png -with sword.png")
	fmt.Println()
	fmt.Println("  # 扫描截图")
	fmt.Println("  itemscan -scan screen.png -templates sword.png,shield.webp")
	fmt.Println()
	fmt.Println("  # 每秒扫描一次实时屏幕")
	fmt.Println("  itemscan -capture -watch 1s -templates sword.png,shield.webp")
	fmt.Println()
	fmt.Printf("配置文件位置: %s\n", config.GetDefaultManager().GetConfigFile())
}
