package main

var huggingfaceModels = []string{
	"AlbertForMaskedLM",
	"BartForCausalLM",
	"BertForMaskedLM",
	"BertForPreTraining_P1_bert",
	"DistilBertForMaskedLM",
	"GPT2LMHeadModel",
	"RobertaForMaskedLM",
	"T5ForConditionalGeneration",
}

type SuiteHuggingface struct{}

func (s *SuiteHuggingface) Name() string          { return "huggingface" }
func (s *SuiteHuggingface) Script() string        { return "huggingface.py" }
func (s *SuiteHuggingface) Selectors() []string   { return huggingfaceModels }
func (s *SuiteHuggingface) BatchSizeFile() string { return "benchmarks/huggingface_models_list.txt" }
func (s *SuiteHuggingface) QuickModel() string    { return "BertForPreTraining_P1_bert" }
