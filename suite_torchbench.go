package main

// Model filters passed verbatim as -k selectors to benchmarks/torchbench.py.
var torchbenchModels = []string{
	"alexnet",
	"BERT_pytorch",
	"dcgan",
	"densenet121",
	"hf_Albert",
	"hf_Bart",
	"hf_Bert",
	"hf_GPT2",
	"hf_T5",
	"mnasnet1_0",
	"mobilenet_v2",
	"mobilenet_v3_large",
	"nvidia_deeprecommender",
	"pytorch_unet",
	"resnet18",
	"resnet50",
	"resnext50_32x4d",
	"shufflenet_v2_x1_0",
	"squeezenet1_1",
	"timm_efficientnet",
	"timm_regnet",
	"timm_resnest",
	"timm_vision_transformer",
	"timm_vovnet",
	"vgg16",
}

type SuiteTorchbench struct{}

func (s *SuiteTorchbench) Name() string          { return "torchbench" }
func (s *SuiteTorchbench) Script() string        { return "torchbench.py" }
func (s *SuiteTorchbench) Selectors() []string   { return torchbenchModels }
func (s *SuiteTorchbench) BatchSizeFile() string { return "benchmarks/torchbench_models_list.txt" }
func (s *SuiteTorchbench) QuickModel() string    { return "resnet18" }
