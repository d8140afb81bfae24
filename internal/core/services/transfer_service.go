package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/fintrackhq/fintrack_backend/internal/apperrors"
	"github.com/fintrackhq/fintrack_backend/internal/core/domain"
	portsrepo "github.com/fintrackhq/fintrack_backend/internal/core/ports/repositories"
	portssvc "github.com/fintrackhq/fintrack_backend/internal/core/ports/services"
	"github.com/fintrackhq/fintrack_backend/internal/dto"
	"github.com/fintrackhq/fintrack_backend/internal/middleware"
	"github.com/fintrackhq/fintrack_backend/internal/utils"
	"github.com/fintrackhq/fintrack_backend/internal/utils/corrkey"
)

var (
	ErrAlreadyMatched   = errors.New("entry already belongs to a transfer pair")
	ErrNotOppositeSigns = errors.New("transfer legs must have opposite signs")
	ErrSameAccount      = errors.New("transfer legs must be in different accounts")
)

const (
	// transferWindowDays is the symmetric date window around the source entry.
	transferWindowDays = 3
	// amountToleranceMinorUnits absorbs small fee/rounding differences
	// between the two legs.
	amountToleranceMinorUnits = 100
	// minTransferConfidence is the acceptance threshold: a keyword hit alone
	// is never enough, same-day plus a transfer-likely account type is.
	minTransferConfidence = 2
)

// accountTypeConfidence ranks how likely an account type is to be the far
// side of a transfer. Credit cards score highest (card payments are the most
// common pair), everyday bank accounts next; cash and investment accounts
// contribute nothing.
var accountTypeConfidence = map[domain.AccountType]int{
	domain.CreditCard: 2,
	domain.Checking:   1,
	domain.Savings:    1,
}

var transferKeywords = []string{"payment", "transfer", "xfer", "pymt", "autopay"}

type transferService struct {
	ledgerRepo  portsrepo.LedgerRepositoryFacade
	accountRepo portsrepo.AccountRepositoryFacade
}

// NewTransferService creates a new TransferService.
func NewTransferService(ledgerRepo portsrepo.LedgerRepositoryFacade, accountRepo portsrepo.AccountRepositoryFacade) portssvc.TransferSvcFacade {
	return &transferService{ledgerRepo: ledgerRepo, accountRepo: accountRepo}
}

var _ portssvc.TransferSvcFacade = (*transferService)(nil)

type scoredCandidate struct {
	entry      domain.LedgerEntry
	confidence int
	dayGap     int
}

// FindCandidates implements portssvc.TransferSvcFacade.
func (s *transferService) FindCandidates(ctx context.Context, entryID string) ([]dto.TransferCandidate, error) {
	scored, err := s.scoredCandidates(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrAlreadyMatched) {
			// Already-tagged entries are never re-evaluated.
			return nil, nil
		}
		return nil, err
	}

	out := make([]dto.TransferCandidate, len(scored))
	for i, c := range scored {
		out[i] = dto.TransferCandidate{Entry: toLedgerEntryResponse(c.entry), Confidence: c.confidence}
	}
	return out, nil
}

// BestMatch implements portssvc.TransferSvcFacade.
func (s *transferService) BestMatch(ctx context.Context, entryID string) (*dto.TransferCandidate, error) {
	scored, err := s.scoredCandidates(ctx, entryID)
	if err != nil {
		if errors.Is(err, ErrAlreadyMatched) {
			return nil, nil
		}
		return nil, err
	}
	if len(scored) == 0 || scored[0].confidence < minTransferConfidence {
		return nil, nil
	}
	best := dto.TransferCandidate{Entry: toLedgerEntryResponse(scored[0].entry), Confidence: scored[0].confidence}
	return &best, nil
}

func (s *transferService) scoredCandidates(ctx context.Context, entryID string) ([]scoredCandidate, error) {
	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return nil, fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	if corrkey.IsTransfer(entry.Reference) {
		return nil, ErrAlreadyMatched
	}
	if corrkey.IsAutomated(entry.Reference) {
		// Valuation plugs and trade entries carry immutable keys and never
		// participate in matching.
		return nil, nil
	}
	if entry.Amount == 0 {
		return nil, nil
	}

	account, err := s.accountRepo.FindAccountByID(ctx, entry.AccountID)
	if err != nil {
		return nil, fmt.Errorf("failed to find account %s: %w", entry.AccountID, err)
	}

	filter := candidateFilter(*entry, account.CurrencyCode)
	candidates, err := s.ledgerRepo.FindTransferCandidates(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to scan transfer candidates for entry %s: %w", entryID, err)
	}
	if len(candidates) == 0 {
		return nil, nil
	}

	accountIDs := make([]string, 0, len(candidates))
	for _, c := range candidates {
		accountIDs = append(accountIDs, c.AccountID)
	}
	accountsByID, err := s.accountRepo.FindAccountsByIDs(ctx, uniqueStrings(accountIDs))
	if err != nil {
		return nil, fmt.Errorf("failed to load candidate accounts: %w", err)
	}

	scored := make([]scoredCandidate, 0, len(candidates))
	for _, c := range candidates {
		// The amount band alone can admit same-sign entries when the source
		// amount is smaller than the tolerance. The query already excludes
		// automated references; the check here keeps the rule independent of
		// the storage layer.
		if c.Amount == 0 || sameSign(entry.Amount, c.Amount) || corrkey.IsAutomated(c.Reference) {
			continue
		}
		candAccount, ok := accountsByID[c.AccountID]
		if !ok {
			continue
		}
		scored = append(scored, scoredCandidate{
			entry:      c,
			confidence: scoreCandidate(*entry, c, candAccount.AccountType),
			dayGap:     absDayGap(entry.EntryDate, c.EntryDate),
		})
	}

	// Highest confidence first; ties broken by date proximity, then by
	// creation order so the result is fully deterministic.
	sort.SliceStable(scored, func(i, j int) bool {
		if scored[i].confidence != scored[j].confidence {
			return scored[i].confidence > scored[j].confidence
		}
		if scored[i].dayGap != scored[j].dayGap {
			return scored[i].dayGap < scored[j].dayGap
		}
		return scored[i].entry.CreatedAt.Before(scored[j].entry.CreatedAt)
	})
	return scored, nil
}

// CommitMatch implements portssvc.TransferSvcFacade. Both entries receive the
// same newly generated transfer key, lose any category assignment and are
// marked cleared, all in one transaction.
func (s *transferService) CommitMatch(ctx context.Context, entryID, candidateEntryID, userID string) error {
	logger := middleware.GetLoggerFromCtx(ctx)

	entry, err := s.ledgerRepo.FindEntryByID(ctx, entryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", entryID, err)
	}
	candidate, err := s.ledgerRepo.FindEntryByID(ctx, candidateEntryID)
	if err != nil {
		return fmt.Errorf("failed to find entry %s: %w", candidateEntryID, err)
	}

	if entry.AccountID == candidate.AccountID {
		return fmt.Errorf("%w: %s", ErrSameAccount, entry.AccountID)
	}
	if corrkey.IsTransfer(entry.Reference) || corrkey.IsTransfer(candidate.Reference) {
		return fmt.Errorf("%w", ErrAlreadyMatched)
	}
	if corrkey.IsAutomated(entry.Reference) || corrkey.IsAutomated(candidate.Reference) {
		// A plug or trade entry's correlation key is immutable; tagging it as
		// a transfer leg would orphan the record it pairs with.
		return fmt.Errorf("%w: entries with automated correlation keys cannot be transfer legs", apperrors.ErrValidation)
	}
	if sameSign(entry.Amount, candidate.Amount) {
		return fmt.Errorf("%w: %d and %d", ErrNotOppositeSigns, entry.Amount, candidate.Amount)
	}

	accounts, err := s.accountRepo.FindAccountsByIDs(ctx, []string{entry.AccountID, candidate.AccountID})
	if err != nil {
		return fmt.Errorf("failed to load accounts for match: %w", err)
	}
	entryAccount, ok := accounts[entry.AccountID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", entry.AccountID))
	}
	candidateAccount, ok := accounts[candidate.AccountID]
	if !ok {
		return apperrors.NewNotFoundError(fmt.Sprintf("account %s not found", candidate.AccountID))
	}
	if entryAccount.CurrencyCode != candidateAccount.CurrencyCode {
		return fmt.Errorf("%w: transfer legs must share a currency", apperrors.ErrValidation)
	}

	suffix, err := utils.GenerateSecureRandomString(4)
	if err != nil {
		return fmt.Errorf("failed to generate transfer key suffix: %w", err)
	}
	now := time.Now().UTC()
	reference := corrkey.ForTransfer(now, suffix)

	if err := s.ledgerRepo.CommitTransferMatch(ctx, entry.EntryID, candidate.EntryID, reference, userID, now); err != nil {
		return fmt.Errorf("failed to commit transfer match: %w", err)
	}

	logger.Info("Transfer pair committed",
		slog.String("entry_a", entry.EntryID),
		slog.String("entry_b", candidate.EntryID),
		slog.String("reference", reference))
	return nil
}

func candidateFilter(entry domain.LedgerEntry, currencyCode string) portsrepo.TransferCandidateFilter {
	opposite := -entry.Amount
	min, max := opposite-amountToleranceMinorUnits, opposite+amountToleranceMinorUnits
	return portsrepo.TransferCandidateFilter{
		ExcludeAccountID: entry.AccountID,
		CurrencyCode:     currencyCode,
		DateFrom:         entry.EntryDate.AddDate(0, 0, -transferWindowDays),
		DateTo:           entry.EntryDate.AddDate(0, 0, transferWindowDays),
		AmountMin:        min,
		AmountMax:        max,
	}
}

// scoreCandidate is deterministic: no randomness ever enters the score.
func scoreCandidate(source, candidate domain.LedgerEntry, candidateType domain.AccountType) int {
	score := accountTypeConfidence[candidateType]
	if containsTransferKeyword(candidate.Description) {
		score++
	}
	if sameDay(source.EntryDate, candidate.EntryDate) {
		score++
	}
	return score
}

func containsTransferKeyword(description string) bool {
	lower := strings.ToLower(description)
	for _, kw := range transferKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.UTC().Date()
	by, bm, bd := b.UTC().Date()
	return ay == by && am == bm && ad == bd
}

func absDayGap(a, b time.Time) int {
	gap := int(a.Sub(b).Hours() / 24)
	if gap < 0 {
		return -gap
	}
	return gap
}

func sameSign(a, b int64) bool {
	return (a > 0) == (b > 0)
}

func toLedgerEntryResponse(e domain.LedgerEntry) dto.LedgerEntryResponse {
	return dto.LedgerEntryResponse{
		EntryID:     e.EntryID,
		AccountID:   e.AccountID,
		EntryDate:   e.EntryDate,
		Amount:      e.Amount,
		Description: e.Description,
		Reference:   e.Reference,
		Cleared:     e.Cleared,
	}
}

// uniqueStrings returns a slice containing only the unique strings from the input.
func uniqueStrings(input []string) []string {
	seen := make(map[string]struct{}, len(input))
	result := make([]string, 0, len(input))
	for _, str := range input {
		if _, ok := seen[str]; !ok {
			seen[str] = struct{}{}
			result = append(result, str)
		}
	}
	return result
}
