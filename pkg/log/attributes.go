package log

// Standard attribute keys. Using these across all packages keeps log output
// filterable by component, operation and pipeline coordinates.
const (
	// ModelNameKey identifies the estimator type.
	// Examples: "LogisticRegression", "StandardScaler", "PCA"
	ModelNameKey = "model.name"

	// OperationKey names the operation being performed.
	// Standard values: "fit", "predict", "transform", "grid_search", "evaluate"
	OperationKey = "ml.operation"

	// ComponentKey identifies the package performing the operation.
	// Examples: "dataset", "modelselection", "report"
	ComponentKey = "ml.component"

	// SamplesKey is the number of samples (rows) being processed.
	SamplesKey = "data.samples"

	// FeaturesKey is the number of feature columns being processed.
	FeaturesKey = "data.features"

	// PositivesKey is the number of positive-label samples.
	PositivesKey = "data.positives"

	// VariantKey names the feature-set variant of a pipeline.
	// Values: "covariates", "expressions", "full"
	VariantKey = "pipeline.variant"

	// FoldKey is the zero-based cross-validation fold index.
	FoldKey = "cv.fold"

	// GridPointKey is the zero-based index of a hyperparameter combination
	// in the grid's enumeration order.
	GridPointKey = "cv.grid_point"

	// CVScoreKey is a cross-validation score (mean fold AUC).
	CVScoreKey = "cv.score"

	// AUCKey is an area-under-ROC-curve value.
	AUCKey = "metric.auc"

	// PartitionKey names a data partition: "train", "test" or "full".
	PartitionKey = "data.partition"

	// SeedKey is the run's random seed.
	SeedKey = "run.seed"

	// DurationMsKey is an operation duration in milliseconds.
	DurationMsKey = "perf.duration_ms"
)
