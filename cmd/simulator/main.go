package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"
)

var (
	serverURL      = flag.String("server", "http://localhost:8080", "API base URL")
	adminEmail     = flag.String("admin-email", "admin@siged.com.br", "Admin email used to promote and assign the analyst")
	adminPassword  = flag.String("admin-password", "admin123", "Admin password")
	pagseguroToken = flag.String("pagseguro-token", "", "PagSeguro token used to sign the simulated payment webhook")
	method         = flag.String("method", "pix", "Payment method for checkout: pix, boleto or credit_card")
	interactive    = flag.Bool("interactive", false, "Enable interactive mode")
	verbose        = flag.Bool("verbose", false, "Enable verbose logging")
)

func main() {
	flag.Parse()

	var logger *zap.Logger
	var err error
	if *verbose {
		logger, err = zap.NewDevelopment()
	} else {
		logger, err = zap.NewProduction()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to create logger: %v\n", err)
		os.Exit(1)
	}
	defer logger.Sync()

	config := &SimulatorConfig{
		ServerURL:      *serverURL,
		AdminEmail:     *adminEmail,
		AdminPassword:  *adminPassword,
		PagSeguroToken: *pagseguroToken,
		PaymentMethod:  *method,
	}

	simulator := NewSimulator(config, logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigChan
		fmt.Println("\nShutting down simulator...")
		simulator.Stop()
		os.Exit(0)
	}()

	if *interactive {
		runInteractiveMode(simulator)
		return
	}

	fmt.Println("SIGED order lifecycle simulator")
	fmt.Printf("  Server: %s\n", *serverURL)
	fmt.Printf("  Method: %s\n", *method)
	fmt.Println()

	if err := simulator.RunScenario(); err != nil {
		logger.Fatal("Scenario failed", zap.Error(err))
	}

	fmt.Println("\nScenario completed. Press Ctrl+C to stop the event stream.")
	select {}
}
