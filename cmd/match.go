package cmd

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/manifoldco/promptui"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/bridgeskills/bridgeskills/internal/extraction"
	"github.com/bridgeskills/bridgeskills/internal/profile"
	"github.com/bridgeskills/bridgeskills/internal/vocabulary"
)

const promptSkip = "skip"

var errNoInput = errors.New("one of --file, --resume or --interactive is required")

var matchCmd = &cobra.Command{
	Use:   "match",
	Short: "Recommend civilian careers for one military background",
	RunE: func(cmd *cobra.Command, _ []string) error {
		return match(cmd)
	},
}

func init() {
	rootCmd.AddCommand(matchCmd)

	matchCmd.Flags().StringP("file", "f", "", "a JSON file with the military background")
	matchCmd.Flags().StringP("resume", "r", "", "a resume document (pdf, docx or txt)")
	matchCmd.Flags().BoolP("interactive", "i", false, "fill in the military background form interactively")
	matchCmd.Flags().Bool("demo", false, "use demo market insights")
}

func match(cmd *cobra.Command) error {
	ctx := cmd.Context()

	log, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating a logger: %w", err)
	}
	defer log.Sync()

	config, err := getConfig()
	if err != nil {
		return fmt.Errorf("getting a config: %w", err)
	}

	gen, err := newGenerator(ctx, config.AI)
	if err != nil {
		return fmt.Errorf("building the recommendation oracle: %w", err)
	}
	if gen == nil {
		log.Warn("no gemini api key configured, using fallback recommendations")
	}

	data, err := matchInput(cmd)
	if err != nil {
		return err
	}

	svc := newRecommender(gen, config, log, newScorer(config), newMarket(ctx, config, nil, log), nil)
	run := svc.Recommend
	if demo, _ := cmd.Flags().GetBool("demo"); demo {
		run = svc.Demo
	}

	resp, err := run(ctx, data)
	if err != nil {
		var verr *profile.ValidationError
		if errors.As(err, &verr) {
			for _, f := range verr.Fields {
				log.Error("invalid background", zap.String("field", f.Field), zap.String("reason", f.Message))
			}
		}
		return err
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(resp)
}

func matchInput(cmd *cobra.Command) (profile.ExtractedData, error) {
	file, _ := cmd.Flags().GetString("file")
	resume, _ := cmd.Flags().GetString("resume")
	interactive, _ := cmd.Flags().GetBool("interactive")

	switch {
	case file != "":
		return readBackground(file)
	case resume != "":
		return readResume(resume)
	case interactive:
		return promptBackground()
	default:
		return profile.ExtractedData{}, errNoInput
	}
}

func readBackground(path string) (profile.ExtractedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile.ExtractedData{}, fmt.Errorf("read background: %w", err)
	}
	var data profile.ExtractedData
	if err := json.Unmarshal(raw, &data); err != nil {
		return profile.ExtractedData{}, fmt.Errorf("parse background %s: %w", path, err)
	}
	return data, nil
}

// readResume keeps the document text as the resume text, which the oracle
// reads on its own. Keyword extraction fills the fields used for scoring.
func readResume(path string) (profile.ExtractedData, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return profile.ExtractedData{}, fmt.Errorf("read resume: %w", err)
	}
	doc, err := extraction.DocumentText(extraction.DetectMIME("", path, raw), raw)
	if err != nil {
		return profile.ExtractedData{}, fmt.Errorf("resume %s: %w", path, err)
	}

	data := extraction.FromText(doc.Text)
	data.ResumeText = doc.Text
	return data, nil
}

func promptBackground() (profile.ExtractedData, error) {
	var data profile.ExtractedData

	branch, err := selectItem("Branch of service", vocabulary.Branches)
	if err != nil {
		return data, err
	}
	data.MilitaryInfo.Branch = branch

	if data.MilitaryInfo.ServiceType, err = selectItem("Service type", vocabulary.ServiceTypes); err != nil {
		return data, err
	}

	rank, err := selectItem("Rank", rankLabels())
	if err != nil {
		return data, err
	}
	data.MilitaryInfo.Rank = rankGrade(rank)

	mosPrompt := promptui.Prompt{
		Label:    "MOS / AFSC / rating (optional)",
		Validate: codeValidator(branch),
	}
	mos, err := mosPrompt.Run()
	if err != nil {
		return data, err
	}
	data.MilitaryInfo.MOS = strings.ToUpper(strings.TrimSpace(mos))

	skillsPrompt := promptui.Prompt{
		Label: "Skills, comma separated (e.g. " + strings.Join(vocabulary.MilitarySkills[:3], ", ") + ")",
	}
	skills, err := skillsPrompt.Run()
	if err != nil {
		return data, err
	}
	data.Skills = splitList(skills)

	exp, err := promptExperience()
	if err != nil {
		return data, err
	}
	if exp != nil {
		data.Experience = append(data.Experience, *exp)
	}

	return data, nil
}

type promptField struct {
	label string
	dest  *string
}

// promptExperience asks for the most recent position. An empty title skips it.
func promptExperience() (*profile.Experience, error) {
	var exp profile.Experience
	fields := []promptField{
		{label: "Most recent position title (empty to " + promptSkip + ")", dest: &exp.Title},
		{label: "Organization", dest: &exp.Organization},
		{label: "Start date (YYYY-MM)", dest: &exp.StartDate},
		{label: "End date (YYYY-MM, empty if current)", dest: &exp.EndDate},
	}

	for i, f := range fields {
		p := promptui.Prompt{Label: f.label}
		value, err := p.Run()
		if err != nil {
			return nil, err
		}
		*f.dest = strings.TrimSpace(value)
		if i == 0 && exp.Title == "" {
			return nil, nil
		}
	}
	return &exp, nil
}

func selectItem(label string, items []string) (string, error) {
	s := promptui.Select{Label: label, Items: items, Size: 10}
	_, value, err := s.Run()
	return value, err
}

func rankLabels() []string {
	out := make([]string, 0, len(vocabulary.Ranks))
	for _, r := range vocabulary.Ranks {
		out = append(out, r+" "+vocabulary.RankDescription(r))
	}
	return out
}

func rankGrade(label string) string {
	grade, _, _ := strings.Cut(label, " ")
	return grade
}

// codeValidator accepts an empty answer or a code known for branch.
func codeValidator(branch string) promptui.ValidateFunc {
	return func(input string) error {
		code := strings.TrimSpace(input)
		if code == "" || vocabulary.ValidCode(code, branch) {
			return nil
		}
		return fmt.Errorf("unknown %s occupational code %q", branch, code)
	}
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
