package main

import (
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/okian/salary/internal/adapters/http/api"
	"github.com/okian/salary/internal/adapters/modelstore"
	"github.com/okian/salary/internal/domain/model"
	"github.com/okian/salary/internal/domain/prediction"
	"github.com/okian/salary/internal/domain/types"
	"github.com/okian/salary/internal/domain/validation"
	"github.com/okian/salary/pkg/logger"
)

func newPredictCmd() *cobra.Command {
	var (
		artifact       modelFlags
		experience     string
		testScore      string
		interviewScore string
		currency       string
		asJSON         bool
	)

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Predict a salary offline from the model artifact",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()

			req, err := validation.Parse(validation.Fields{
				model.FeatureExperience:     experience,
				model.FeatureTestScore:      testScore,
				model.FeatureInterviewScore: interviewScore,
			})
			if err != nil {
				return err
			}

			m, err := modelstore.New(artifact.path,
				modelstore.WithExpectedSHA256(artifact.sha256),
				modelstore.WithLogger(logger.Get()),
			).Load(ctx)
			if err != nil {
				return err
			}

			info := m.Info()
			svc, err := prediction.NewService(m,
				prediction.WithIdentity(info.ModelID, info.Version),
				prediction.WithLogger(logger.Get()),
			)
			if err != nil {
				return err
			}

			res, err := svc.Predict(ctx, uuid.NewString(), req)
			if err != nil {
				return err
			}

			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(types.Prediction{
					ID:           res.ID,
					Salary:       res.Salary,
					ModelID:      res.ModelID,
					ModelVersion: res.ModelVersion,
				})
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), api.SalaryText(currency, res.Salary))
			return err
		},
	}

	artifact.register(cmd)
	cmd.Flags().StringVar(&experience, "experience", "", "years of experience")
	cmd.Flags().StringVar(&testScore, "test-score", "", "test score")
	cmd.Flags().StringVar(&interviewScore, "interview-score", "", "interview score")
	cmd.Flags().StringVar(&currency, "currency", "$", "currency symbol")
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the prediction as JSON")
	return cmd
}
