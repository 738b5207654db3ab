package main

var timmModels = []string{
	"adv_inception_v3",
	"beit_base_patch16_224",
	"convnext_base",
	"deit_base_distilled_patch16_224",
	"dm_nfnet_f0",
	"mobilenetv3_large_100",
	"swin_base_patch4_window7_224",
	"tf_efficientnet_b0",
	"vit_base_patch16_224",
}

type SuiteTimm struct{}

func (s *SuiteTimm) Name() string          { return "timm_models" }
func (s *SuiteTimm) Script() string        { return "timm_models.py" }
func (s *SuiteTimm) Selectors() []string   { return timmModels }
func (s *SuiteTimm) BatchSizeFile() string { return "benchmarks/timm_models_list.txt" }

// No single representative model is wired for quick runs yet.
func (s *SuiteTimm) QuickModel() string { return "" }

// Registry of all suites, in the default sweep order.
var Suites = []Suite{
	&SuiteTorchbench{},
	&SuiteHuggingface{},
	&SuiteTimm{},
}

func FindSuite(name string) (Suite, bool) {
	for _, suite := range Suites {
		if suite.Name() == name {
			return suite, true
		}
	}
	return nil, false
}
