package leaderboardservice

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	leaderboarddomain "github.com/matchday-pool/predictor/app/modules/leaderboard/domain"
	"github.com/matchday-pool/predictor/app/results"
	"github.com/xuri/excelize/v2"
)

const maxSheetName = 31

var leaderboardHeader = []any{"Rank", "Participant", "Points", "Matches counted"}

// ExportLeaderboardXLSX writes a stage's leaderboard as a one-sheet workbook.
func (s *LeaderboardService) ExportLeaderboardXLSX(ctx context.Context, stageID uuid.UUID) ([]byte, error) {
	type res = results.OperationResult[[]byte, error]
	return unwrap(withTelemetry(s, ctx, "ExportLeaderboardXLSX", stageID.String(), func(ctx context.Context) (res, error) {
		board, err := s.board(ctx, stageID)
		if err != nil {
			return res{}, err
		}
		if board.IsFailure() {
			return results.FailureResult[[]byte, error](*board.Failure), nil
		}
		data, err := BuildLeaderboardWorkbook(board.Success.StageName, board.Success.Standings)
		if err != nil {
			return res{}, err
		}
		return results.SuccessResult[[]byte, error](data), nil
	}))
}

// BuildLeaderboardWorkbook renders standings into XLSX bytes.
func BuildLeaderboardWorkbook(stageName string, standings []leaderboarddomain.Standing) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheet := sheetName(stageName)
	if err := f.SetSheetName(f.GetSheetName(0), sheet); err != nil {
		return nil, fmt.Errorf("failed to name sheet: %w", err)
	}

	if err := f.SetSheetRow(sheet, "A1", &leaderboardHeader); err != nil {
		return nil, fmt.Errorf("failed to write header: %w", err)
	}
	for i, st := range standings {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return nil, err
		}
		row := []any{st.Rank, st.DisplayName, st.Points, st.MatchesCounted}
		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return nil, fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}
	if err := f.SetColWidth(sheet, "B", "B", 28); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, fmt.Errorf("failed to encode workbook: %w", err)
	}
	return buf.Bytes(), nil
}

// sheetName strips characters Excel rejects and truncates to its limit.
func sheetName(name string) string {
	name = strings.Map(func(r rune) rune {
		if strings.ContainsRune(`[]:*?/\`, r) {
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if name == "" {
		name = "Leaderboard"
	}
	if r := []rune(name); len(r) > maxSheetName {
		name = string(r[:maxSheetName])
	}
	return name
}
