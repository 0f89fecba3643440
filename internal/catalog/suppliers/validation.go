package suppliers

import "github.com/stockroom/stockroom/internal/shared"

func (s *Service) normalize(in Input) (Input, error) {
	in.Name = shared.NormalizeName(in.Name)
	in.ContactEmail = shared.NormalizeOptional(in.ContactEmail)
	in.Phone = shared.NormalizeOptional(in.Phone)
	if err := shared.ValidateStruct(s.validate, in); err != nil {
		return Input{}, err
	}
	return in, nil
}
