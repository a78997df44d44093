// Package genoml predicts gene mutation status from tumor gene-expression
// profiles and clinical covariates, and compares how much each feature set
// contributes to the prediction.
//
// The pipeline joins three sample-keyed tables (covariates, expressions,
// mutations), derives a binary label from one or more genes of interest, and
// trains an elastic-net logistic regression per feature-set variant:
// covariates only, expressions only, and both combined. Hyperparameters are
// chosen by stratified cross-validated grid search on mean fold AUC, and the
// winners are evaluated on a held-out test partition.
//
// # Usage
//
// Describe a run in YAML and point the CLI at it:
//
//	genoml -config run.yaml -genes TP53 -seed 42
//
// The run writes results.json (selected hyperparameters, the full CV score
// surface, per-partition metrics, named coefficients and per-sample scores)
// plus overlaid ROC charts for both partitions.
//
// # Packages
//
//   - dataset: table joining, label derivation, stratified train/test split
//   - features: feature-set routing over a column-tagged matrix
//   - preprocessing: StandardScaler and PCA with train-only statistics
//   - linearmodel: elastic-net logistic regression
//   - modelselection: stratified k-fold CV and grid search
//   - pipeline: the per-variant composite estimator
//   - report: evaluation records, JSON artifact and ROC charts
//
// All randomness is seeded explicitly; two runs with the same configuration
// produce identical model selections.
package genoml
