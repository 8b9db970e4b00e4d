package tui

import (
	"fmt"
	"os"
	"strconv"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/rgehrsitz/tgplan/internal/calculation"
	"github.com/rgehrsitz/tgplan/internal/compare"
	"github.com/rgehrsitz/tgplan/internal/config"
	"github.com/rgehrsitz/tgplan/internal/domain"
	"github.com/rgehrsitz/tgplan/internal/output"
)

// Model represents the entire application state. Form state is owned here;
// every edit re-runs the engine on the current inputs.
type Model struct {
	// Navigation
	currentScene  Scene
	previousScene Scene
	keys          keyMap

	// Terminal dimensions
	width  int
	height int

	// Configuration and data
	configPath string
	config     *domain.Configuration
	branding   domain.ReportBranding
	regulatory domain.RegulatoryConfig // rules loaded at startup; the rules form overrides its deductions

	// Calculation engine
	calcEngine *calculation.CalculationEngine
	optimizer  *compare.StrategyOptimizer

	// Inputs
	cascadeForm        form
	planForm           form
	rulesForm          form
	ownershipChanged   bool
	faceToGen3Directly bool
	strategy           domain.Strategy
	rpuEnabled         bool
	rpuMode            domain.RPUMode

	// Outputs of the last recalculation
	cascadeResult *domain.CascadeResult
	cascadeErr    error
	planResult    *domain.PlanSchedule
	capacity      *domain.CapacityReference
	comparison    *compare.ComparisonSet
	planErr       error
	rulesErr      error

	// Status
	status  string
	err     error
	loading bool
}

// NewModel creates a model seeded with the default inputs. When configPath is
// set the first scenario of that file replaces them once loaded.
func NewModel(configPath string) Model {
	regulatory := domain.DefaultRegulatoryConfig()
	engine := calculation.NewCalculationEngineWithConfig(regulatory)
	m := Model{
		currentScene:       SceneCascade,
		keys:               defaultKeyMap(),
		configPath:         configPath,
		branding:           domain.DefaultReportBranding(),
		regulatory:         regulatory,
		calcEngine:         engine,
		optimizer:          compare.NewStrategyOptimizer(engine),
		ownershipChanged:   true,
		faceToGen3Directly: true,
		strategy:           domain.TaxMinimizing,
		rpuEnabled:         true,
		rpuMode:            domain.RPUAuto,
		loading:            configPath != "",
		width:              100,
		height:             30,
	}
	m.cascadeForm = newForm(
		newField(fieldTotalAssets, "Gen1 total assets", "200000000"),
		newField(fieldPremium, "Premium", "6000000"),
		newField(fieldCashValue, "Cash value at gift", "2000000"),
		newField(fieldFaceAmount, "Face amount", "30000000"),
		newField(fieldDonors, "Donors", "1"),
		newField(fieldGen1Descendants, "Gen1 lineal descendants", "0"),
		newField(fieldGen2Descendants, "Gen2 lineal descendants", "0"),
	)
	m.planForm = newForm(
		newField(fieldTargetPremium, "Target annual premium", "10000000"),
		newField(fieldPerPolicyCap, "Per-policy cap", "6000000"),
		newField(fieldPlanDonors, "Donors", "1"),
		newField(fieldYear1Batch, "Policies bought in year 1", "0"),
		newField(fieldManualRPUYear, "Manual RPU year", "3"),
	)
	m.rulesForm = newForm(
		newField(fieldGiftExemption, "Gift annual exemption", ""),
		newField(fieldEstateExemption, "Estate exemption", ""),
		newField(fieldSpouse, "Spouse deduction", ""),
		newField(fieldFuneral, "Funeral deduction", ""),
		newField(fieldPerDescendant, "Per-descendant deduction", ""),
	)
	m.setRules(regulatory.Tax)
	m.recalculate()
	return m
}

// Init initializes the model (required by tea.Model interface)
func (m Model) Init() tea.Cmd {
	if m.configPath == "" {
		return nil
	}
	return loadConfigCmd(m.configPath)
}

// loadConfigCmd returns a command that loads the configuration file
func loadConfigCmd(path string) tea.Cmd {
	return func() tea.Msg {
		parser := config.NewInputParser()
		cfg, err := parser.LoadFromFile(path)
		if err != nil {
			return ErrorMsg{Err: err}
		}
		return ConfigLoadedMsg{Config: cfg}
	}
}

// applyConfig rebuilds the engine from the file's regulatory data and copies
// the first cascade and plan blocks into the forms
func (m *Model) applyConfig(cfg *domain.Configuration) error {
	m.config = cfg
	m.branding = cfg.Report
	m.regulatory = config.Regulatory(cfg)
	m.calcEngine = calculation.NewCalculationEngineWithConfig(m.regulatory)
	m.optimizer = compare.NewStrategyOptimizer(m.calcEngine)
	m.setRules(m.regulatory.Tax)
	m.rulesErr = nil

	for i := range cfg.Scenarios {
		if s := cfg.Scenarios[i].Cascade; s != nil {
			in, err := m.calcEngine.CascadeInputFromScenario(s)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", cfg.Scenarios[i].Name, err)
			}
			m.setCascadeInput(in)
			break
		}
	}
	for i := range cfg.Scenarios {
		if s := cfg.Scenarios[i].Plan; s != nil {
			in, err := calculation.PlanInputFromScenario(s)
			if err != nil {
				return fmt.Errorf("scenario %q: %w", cfg.Scenarios[i].Name, err)
			}
			m.setPlanInput(in)
			break
		}
	}
	m.recalculate()
	return nil
}

func (m *Model) setCascadeInput(in domain.CascadeInput) {
	m.cascadeForm.set(fieldTotalAssets, money(in.TotalAssets))
	m.cascadeForm.set(fieldPremium, money(in.Premium))
	m.cascadeForm.set(fieldCashValue, money(in.CashValueAtGift))
	m.cascadeForm.set(fieldFaceAmount, money(in.FaceAmount))
	m.cascadeForm.set(fieldDonors, strconv.Itoa(in.DonorCount))
	m.cascadeForm.set(fieldGen1Descendants, strconv.Itoa(in.Gen1Descendants))
	m.cascadeForm.set(fieldGen2Descendants, strconv.Itoa(in.Gen2Descendants))
	m.ownershipChanged = in.OwnershipChanged
	m.faceToGen3Directly = in.FaceToGen3Directly
}

func (m *Model) setPlanInput(in domain.PlanInput) {
	m.planForm.set(fieldTargetPremium, money(in.TargetAnnualPremium))
	m.planForm.set(fieldPerPolicyCap, money(in.PerPolicyCap))
	m.planForm.set(fieldPlanDonors, strconv.Itoa(in.DonorCount))
	m.planForm.set(fieldYear1Batch, strconv.Itoa(in.Year1Batch))
	if in.RPU.ManualYear > 0 {
		m.planForm.set(fieldManualRPUYear, strconv.Itoa(in.RPU.ManualYear))
	}
	m.strategy = in.Strategy
	m.rpuEnabled = in.RPU.Enabled
	m.rpuMode = in.RPU.Mode
}

func (m *Model) setRules(rules domain.TaxRules) {
	m.rulesForm.set(fieldGiftExemption, money(rules.GiftDeductions.AnnualExemption))
	m.rulesForm.set(fieldEstateExemption, money(rules.EstateDeductions.Exemption))
	m.rulesForm.set(fieldSpouse, money(rules.EstateDeductions.Spouse))
	m.rulesForm.set(fieldFuneral, money(rules.EstateDeductions.Funeral))
	m.rulesForm.set(fieldPerDescendant, money(rules.EstateDeductions.PerDescendant))
}

// rulesConfig returns the loaded regulatory data with the rules form's
// exemption and deductions applied
func (m *Model) rulesConfig() (domain.RegulatoryConfig, error) {
	cfg := m.regulatory
	var err error
	if cfg.Tax.GiftDeductions.AnnualExemption, err = m.rulesForm.decimal(fieldGiftExemption); err != nil {
		return cfg, err
	}
	ed := &cfg.Tax.EstateDeductions
	if ed.Exemption, err = m.rulesForm.decimal(fieldEstateExemption); err != nil {
		return cfg, err
	}
	if ed.Spouse, err = m.rulesForm.decimal(fieldSpouse); err != nil {
		return cfg, err
	}
	if ed.Funeral, err = m.rulesForm.decimal(fieldFuneral); err != nil {
		return cfg, err
	}
	if ed.PerDescendant, err = m.rulesForm.decimal(fieldPerDescendant); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// applyRules rebuilds the engine from the rules form. An invalid form keeps
// the previous engine and records the error.
func (m *Model) applyRules() {
	cfg, err := m.rulesConfig()
	if err != nil {
		m.rulesErr = err
		return
	}
	engine, err := calculation.NewValidatedCalculationEngine(cfg)
	if err != nil {
		m.rulesErr = err
		return
	}
	m.rulesErr = nil
	m.calcEngine = engine
	m.optimizer = compare.NewStrategyOptimizer(engine)
	m.recalculate()
}

// cascadeInput reads the cascade form
func (m *Model) cascadeInput() (domain.CascadeInput, error) {
	in := domain.CascadeInput{
		OwnershipChanged:   m.ownershipChanged,
		FaceToGen3Directly: m.faceToGen3Directly,
	}
	var err error
	if in.TotalAssets, err = m.cascadeForm.decimal(fieldTotalAssets); err != nil {
		return in, err
	}
	if in.Premium, err = m.cascadeForm.decimal(fieldPremium); err != nil {
		return in, err
	}
	if in.CashValueAtGift, err = m.cascadeForm.decimal(fieldCashValue); err != nil {
		return in, err
	}
	if in.FaceAmount, err = m.cascadeForm.decimal(fieldFaceAmount); err != nil {
		return in, err
	}
	if in.DonorCount, err = m.cascadeForm.int(fieldDonors); err != nil {
		return in, err
	}
	if in.Gen1Descendants, err = m.cascadeForm.int(fieldGen1Descendants); err != nil {
		return in, err
	}
	if in.Gen2Descendants, err = m.cascadeForm.int(fieldGen2Descendants); err != nil {
		return in, err
	}
	return in, nil
}

// planInput reads the plan form
func (m *Model) planInput() (domain.PlanInput, error) {
	in := domain.PlanInput{
		Strategy: m.strategy,
		RPU:      domain.RPUOption{Enabled: m.rpuEnabled, Mode: m.rpuMode},
	}
	var err error
	if in.TargetAnnualPremium, err = m.planForm.decimal(fieldTargetPremium); err != nil {
		return in, err
	}
	if in.PerPolicyCap, err = m.planForm.decimal(fieldPerPolicyCap); err != nil {
		return in, err
	}
	if in.DonorCount, err = m.planForm.int(fieldPlanDonors); err != nil {
		return in, err
	}
	if in.Year1Batch, err = m.planForm.int(fieldYear1Batch); err != nil {
		return in, err
	}
	if m.rpuMode == domain.RPUManual {
		if in.RPU.ManualYear, err = m.planForm.int(fieldManualRPUYear); err != nil {
			return in, err
		}
	}
	return in, nil
}

// recalculate re-runs the engine on the current inputs. The same inputs
// always give the same outputs.
func (m *Model) recalculate() {
	m.cascadeResult, m.cascadeErr = nil, nil
	m.planResult, m.capacity, m.comparison, m.planErr = nil, nil, nil, nil

	if in, err := m.cascadeInput(); err != nil {
		m.cascadeErr = err
	} else {
		m.cascadeResult, m.cascadeErr = m.calcEngine.SimulateCascade(in)
	}

	in, err := m.planInput()
	if err != nil {
		m.planErr = err
		return
	}
	if m.planResult, err = m.calcEngine.Plan(in); err != nil {
		m.planResult, m.planErr = nil, err
		return
	}
	capacity := m.calcEngine.Capacity(in.DonorCount, in.PerPolicyCap)
	m.capacity = &capacity
	if m.comparison, err = m.optimizer.Optimize(in); err != nil {
		m.comparison, m.planErr = nil, err
	}
}

// exportReportCmd writes the current cascade totals to a PDF in the working directory
func exportReportCmd(branding domain.ReportBranding, result domain.CascadeResult) tea.Cmd {
	return func() tea.Msg {
		pages := []output.ReportPage{{Scenario: "Interactive", Totals: result.Totals()}}
		data, id, err := output.GeneratePDFReport(branding, pages, time.Now())
		if err != nil {
			return ReportExportedMsg{Err: err}
		}
		path := fmt.Sprintf("tgplan_report_%s.pdf", time.Now().Format("20060102_150405"))
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return ReportExportedMsg{Err: err}
		}
		return ReportExportedMsg{Path: path, ReportID: id}
	}
}

func nextStrategy(s domain.Strategy) domain.Strategy {
	all := domain.AllStrategies
	for i, candidate := range all {
		if candidate == s {
			return all[(i+1)%len(all)]
		}
	}
	return all[0]
}
