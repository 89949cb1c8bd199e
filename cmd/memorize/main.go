package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"runtime"

	"github.com/tliron/commonlog"
	_ "github.com/tliron/commonlog/simple"

	"memorize/internal/config"
	"memorize/internal/server"
)

// Version will be set during the build process using ldflags
var Version = "(dev) v0.0.0"

func main() {
	versionFlag := flag.Bool("version", false, "Print the version of the program")
	logfileFlag := flag.String("logfile", "", "Path to log file")
	configFlag := flag.String("config", "", "Path to a TOML config file")
	dumpFlag := flag.Bool("dump", false, "Print the saved stacks of every window and exit")
	flag.Parse()

	// Version tag
	if *versionFlag {
		fmt.Printf("memorize LSP server version %s\n", Version)
		return
	}

	cfg := config.Default()
	if *configFlag != "" {
		var err error
		if cfg, err = config.LoadFile(*configFlag); err != nil {
			log.Fatalf("Failed to load config: %v", err)
		}
	}

	if *dumpFlag {
		if err := runDump(os.Stdout, cfg); err != nil {
			log.Fatalf("Dump failed: %v", err)
		}
		return
	}

	runtime.GOMAXPROCS(4)

	// Logging
	if *logfileFlag != "" {
		logFile, err := os.OpenFile(*logfileFlag, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0666)
		if err != nil {
			log.Fatalf("Failed to open log file: %v", err)
		}
		defer logFile.Close()
		log.SetOutput(logFile)
		log.SetFlags(log.Ldate | log.Ltime | log.Llongfile)
		log.Println("Starting memorize LSP server...")
		commonlog.Configure(2, logfileFlag)
	} else {
		log.SetOutput(io.Discard)
		commonlog.Configure(1, nil) // Logger used by glsp
	}

	// Initialize the server
	server, err := server.NewServer(cfg)
	if err != nil {
		log.Fatalf("Failed to create server: %v", err)
	}

	// Run the server
	if err := server.RunStdio(); err != nil {
		log.Fatalf("Server error: %v", err)
	}
}
