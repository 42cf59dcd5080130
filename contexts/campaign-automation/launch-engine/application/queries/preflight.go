package queries

import (
	"context"
	"errors"
	"log/slog"
	"strings"

	application "lumora/contexts/campaign-automation/launch-engine/application"
	"lumora/contexts/campaign-automation/launch-engine/domain/entities"
	domainerrors "lumora/contexts/campaign-automation/launch-engine/domain/errors"
	"lumora/contexts/campaign-automation/launch-engine/ports"
)

const (
	CheckMetaConnected     = "Meta connected"
	CheckAdAccountSelected = "Ad account selected"
	CheckPageLinked        = "Facebook Page linked"
	CheckPaymentMethod     = "Payment method on file"
	CheckBudgetConfigured  = "Budget configured"

	actionConnectMeta   = "Connect Meta in Settings → Connected Accounts"
	actionConnectFirst  = "Connect Meta first"
	actionSelectAccount = "Select an ad account in Settings → Connected Accounts"
	actionLinkPage      = "Create or link a Facebook Page in Meta Business Manager"
	actionAddPayment    = "Add a payment method in Meta Business Manager → Billing"
	actionSetBudget     = "Set a daily budget in Settings → Business Settings"
)

type PreflightCheck struct {
	Label  string
	Pass   bool
	Action string
}

type PreflightResult struct {
	Ready  bool
	Checks []PreflightCheck
}

// PreflightUseCase answers whether a business can launch on Meta. Failed network
// lookups count as failed checks, never as errors.
type PreflightUseCase struct {
	Businesses  ports.BusinessRepository
	Connections ports.ConnectionRepository
	Tokens      ports.TokenProvider
	Adapters    ports.AdapterFactory
	Logger      *slog.Logger
}

func (uc PreflightUseCase) Execute(ctx context.Context, businessID string) (PreflightResult, error) {
	logger := application.ResolveLogger(uc.Logger)
	businessID = strings.TrimSpace(businessID)
	if businessID == "" {
		return PreflightResult{}, domainerrors.ErrInvalidRequest
	}

	if uc.Adapters != nil && uc.Adapters.Simulated() {
		return finish([]PreflightCheck{
			{Label: CheckMetaConnected, Pass: true},
			{Label: CheckAdAccountSelected, Pass: true},
			{Label: CheckPageLinked, Pass: true},
			{Label: CheckPaymentMethod, Pass: true},
			{Label: CheckBudgetConfigured, Pass: true},
		}), nil
	}

	business, err := uc.Businesses.GetBusiness(ctx, businessID)
	if err != nil {
		return PreflightResult{}, err
	}
	budget := check(CheckBudgetConfigured, business.BudgetConfigured(), actionSetBudget)

	connection, err := uc.Connections.GetActiveConnection(ctx, businessID, entities.PlatformMeta)
	if errors.Is(err, domainerrors.ErrConnectionNotFound) {
		return finish([]PreflightCheck{
			check(CheckMetaConnected, false, actionConnectMeta),
			check(CheckAdAccountSelected, false, actionConnectFirst),
			check(CheckPageLinked, false, actionConnectFirst),
			check(CheckPaymentMethod, false, actionConnectFirst),
			budget,
		}), nil
	}
	if err != nil {
		return PreflightResult{}, err
	}

	accountSelected := strings.TrimSpace(connection.PlatformAccountID) != ""
	pageLinked, paymentOnFile := false, false

	inspector, tokens, err := uc.accountInspector(ctx, connection)
	if err != nil {
		logger.Warn("preflight account check unavailable",
			"event", "launch_engine_preflight_account_check_unavailable",
			"module", application.ModuleName,
			"layer", "application",
			"business_id", businessID,
			"error", err.Error(),
		)
	} else {
		if pageLinked, err = inspector.HasLinkedPage(ctx, tokens); err != nil {
			pageLinked = false
		}
		if accountSelected {
			if paymentOnFile, err = inspector.HasPaymentMethod(ctx, tokens, connection.PlatformAccountID); err != nil {
				paymentOnFile = false
			}
		}
	}

	result := finish([]PreflightCheck{
		check(CheckMetaConnected, true, ""),
		check(CheckAdAccountSelected, accountSelected, actionSelectAccount),
		check(CheckPageLinked, pageLinked, actionLinkPage),
		check(CheckPaymentMethod, paymentOnFile, actionAddPayment),
		budget,
	})
	logger.Debug("preflight evaluated",
		"event", "launch_engine_preflight_evaluated",
		"module", application.ModuleName,
		"layer", "application",
		"business_id", businessID,
		"ready", result.Ready,
	)
	return result, nil
}

func (uc PreflightUseCase) accountInspector(ctx context.Context, connection entities.Connection) (ports.AccountInspector, entities.OAuthTokens, error) {
	if uc.Adapters == nil || uc.Tokens == nil {
		return nil, entities.OAuthTokens{}, domainerrors.ErrPlatformNotSupported
	}
	inspector, err := uc.Adapters.Inspector(entities.PlatformMeta)
	if err != nil {
		return nil, entities.OAuthTokens{}, err
	}
	tokens, err := uc.Tokens.ValidTokens(ctx, connection)
	if err != nil {
		return nil, entities.OAuthTokens{}, err
	}
	return inspector, tokens, nil
}

func check(label string, pass bool, action string) PreflightCheck {
	if pass {
		action = ""
	}
	return PreflightCheck{Label: label, Pass: pass, Action: action}
}

func finish(checks []PreflightCheck) PreflightResult {
	ready := true
	for _, c := range checks {
		ready = ready && c.Pass
	}
	return PreflightResult{Ready: ready, Checks: checks}
}
