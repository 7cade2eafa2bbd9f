package main

import (
	"btc-price-service/internal/application/dto"
	"btc-price-service/internal/domain/entities"
	"btc-price-service/pkg/utils"
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
)

func writeJSONPayload(out io.Writer, payload entities.PricePayload) error {
	encoder := json.NewEncoder(out)
	encoder.SetIndent("", "  ")
	return encoder.Encode(dto.NewPricesResponse(payload))
}

func writeHumanPayload(out io.Writer, payload entities.PricePayload, xCache string) error {
	target := payload.HistoricalTargetDate
	if parsed, err := time.Parse(utils.ISOMillisLayout, payload.HistoricalTargetDate); err == nil {
		target = fmt.Sprintf("%s, %s", payload.HistoricalTargetDate, humanize.Time(parsed))
	}

	lines := []string{
		fmt.Sprintf("Current price:     $%s", humanize.Comma(payload.CurrentPriceUSD)),
		fmt.Sprintf("Historical price:  $%s (%s)", humanize.Comma(payload.HistoricalPriceUSD), target),
	}
	if xCache != "" {
		lines = append(lines, fmt.Sprintf("Cache:             %s", xCache))
	}

	for _, line := range lines {
		if _, err := fmt.Fprintln(out, line); err != nil {
			return err
		}
	}
	return nil
}
