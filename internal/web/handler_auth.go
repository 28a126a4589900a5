package web

import (
	"errors"
	"net/http"

	"github.com/geohome/geohome/internal/domain"
	"github.com/geohome/geohome/internal/identity"
)

func (s *Server) handleRegister(w http.ResponseWriter, r *http.Request) {
	var in domain.RegisterInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.svc.Auth.Register(r.Context(), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusCreated, "User registered successfully", sess)
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var in domain.LoginInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	sess, err := s.svc.Auth.Login(r.Context(), &in)
	if err != nil {
		if errors.Is(err, domain.ErrUnauthenticated) {
			s.logger.Debug("login rejected", "error", err)
			s.writeJSON(w, http.StatusUnauthorized, envelope{Message: "Invalid email or password"})
			return
		}
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Login successful", sess)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.Auth.Logout(r.Context(), identity.TokenFrom(r.Context())); err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeJSON(w, http.StatusOK, envelope{Success: true, Message: "Logged out successfully"})
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	s.writeData(w, http.StatusOK, "", identity.UserFrom(r.Context()))
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var in domain.ProfileInput
	if err := decodeJSON(w, r, &in); err != nil {
		s.writeError(w, r, err)
		return
	}

	user, err := s.svc.Auth.UpdateProfile(r.Context(), identity.TokenFrom(r.Context()), &in)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	s.writeData(w, http.StatusOK, "Profile updated successfully", user)
}
