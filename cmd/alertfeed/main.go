package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	cdcalert "github.com/Trendyol/go-cdc-alert"
	"github.com/Trendyol/go-cdc-alert/logger"

	"golang.org/x/sync/errgroup"
)

const recordFields = 6

var errMalformedRecord = errors.New("malformed alert record")

type record struct {
	sourceOrTarget string
	name           string
	eventText      string
	zoneID         int
	categoryID     int
	eventID        int
}

// parseRecord reads zone, category, S|T, name, event id and text; the text
// keeps any separator it contains.
func parseRecord(line string, separator string) (record, error) {
	parts := strings.SplitN(line, separator, recordFields)
	if len(parts) != recordFields {
		return record{}, fmt.Errorf("%w: %q", errMalformedRecord, line)
	}

	zoneID, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil {
		return record{}, fmt.Errorf("%w: zone: %v", errMalformedRecord, err)
	}

	categoryID, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil {
		return record{}, fmt.Errorf("%w: category: %v", errMalformedRecord, err)
	}

	eventID, err := strconv.Atoi(strings.TrimSpace(parts[4]))
	if err != nil {
		return record{}, fmt.Errorf("%w: event id: %v", errMalformedRecord, err)
	}

	return record{
		zoneID:         zoneID,
		categoryID:     categoryID,
		sourceOrTarget: strings.TrimSpace(parts[2]),
		name:           parts[3],
		eventID:        eventID,
		eventText:      parts[5],
	}, nil
}

// feed dispatches every record in input to handler from at most workers goroutines.
// Malformed lines are logged and skipped.
func feed(ctx context.Context, handler cdcalert.AlertHandler, input io.Reader, workers int) (int, error) {
	group, ctx := errgroup.WithContext(ctx)
	group.SetLimit(workers)

	separator := handler.GetConfig().Separator
	scanner := bufio.NewScanner(input)
	dispatched := 0

	for scanner.Scan() {
		line := scanner.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		r, err := parseRecord(line, separator)
		if err != nil {
			logger.Log.Error("skipping record: %v", err)
			continue
		}

		if ctx.Err() != nil {
			break
		}

		dispatched++
		group.Go(func() error {
			handler.Handle(r.zoneID, r.categoryID, r.sourceOrTarget, r.name, r.eventID, r.eventText, nil)
			return nil
		})
	}

	if err := group.Wait(); err != nil {
		return dispatched, err
	}

	return dispatched, scanner.Err()
}

func main() {
	inputPath := flag.String("input", "", "alert records file, stdin when empty")
	workers := flag.Int("workers", 4, "concurrent handler invocations")
	flag.Parse()

	handler, err := cdcalert.NewAlertHandler()
	if err != nil {
		logger.Log.Error("cannot create alert handler: %v", err)
		os.Exit(1)
	}
	defer handler.Close()

	var input io.Reader = os.Stdin
	if *inputPath != "" {
		file, err := os.Open(*inputPath)
		if err != nil {
			logger.Log.Error("cannot open %s: %v", *inputPath, err)
			os.Exit(1)
		}
		defer file.Close()
		input = file
	}

	dispatched, err := feed(context.Background(), handler, input, *workers)
	if err != nil {
		logger.Log.Error("feed stopped after %d records: %v", dispatched, err)
	}

	metric := handler.GetMetric()
	logger.Log.Info(
		"dispatched %d alerts: logged=%d filtered=%d failed=%d rotated=%d",
		dispatched, metric.Logged, metric.Filtered, metric.Failed, metric.Rotated,
	)
}
