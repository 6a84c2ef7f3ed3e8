package cli

import (
	"hrpilot/internal/panel"
	"hrpilot/internal/types"

	"github.com/spf13/cobra"
)

var onboardCmd = &cobra.Command{
	Use:   "onboard --name <name> --role <role>",
	Short: "Plan a new hire's first week or write their welcome email",
	Args:  cobra.NoArgs,
	RunE:  withRuntime(runOnboard),
}

var onboardFlags struct {
	Name  string
	Role  string
	Email bool
}

func init() {
	onboardCmd.Flags().StringVar(&onboardFlags.Name, "name", "", "New hire's name")
	onboardCmd.Flags().StringVar(&onboardFlags.Role, "role", "", "New hire's role")
	onboardCmd.Flags().BoolVar(&onboardFlags.Email, "email", false, "Write a welcome email instead of a checklist")
	_ = onboardCmd.MarkFlagRequired("name")
	_ = onboardCmd.MarkFlagRequired("role")
}

func runOnboard(cmd *cobra.Command, _ []string, r *runtime) error {
	onboarding := r.workspace.Onboarding
	onboarding.SetHire(onboardFlags.Name, onboardFlags.Role)
	if onboardFlags.Email {
		if err := onboarding.SetTab(panel.TabEmail); err != nil {
			return err
		}
	}

	r.logger.Info("Generating onboarding material",
		"role", onboardFlags.Role,
		"email", onboardFlags.Email,
		"language", r.lang)

	if err := onboarding.Generate(cmd.Context()); err != nil {
		return err
	}

	st := onboarding.State()
	if onboardFlags.Email {
		return r.write(cmd, types.WelcomeEmail{Name: st.Name, Role: st.Role, Body: st.WelcomeEmail})
	}
	return r.write(cmd, types.OnboardingOutput{Name: st.Name, Role: st.Role, Tasks: st.Tasks})
}
